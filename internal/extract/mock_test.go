package extract

import (
	"github.com/stretchr/testify/mock"

	"github.com/sells-group/agent-miner/internal/lexicon"
)

// --- Recognizer Mock ---

type mockRecognizer struct {
	mock.Mock
}

func (m *mockRecognizer) Entities(text string) ([]Entity, error) {
	args := m.Called(text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Entity), args.Error(1)
}

type panicRecognizer struct{}

func (panicRecognizer) Entities(string) ([]Entity, error) {
	panic("model not loaded")
}

// --- Source Stub ---

type stubSource struct {
	name string
	out  []string
	err  error
}

func (s stubSource) Name() string { return s.name }

func (s stubSource) Candidates(string) ([]string, error) { return s.out, s.err }

func testValidator() *Validator {
	return NewValidator(lexicon.Default())
}
