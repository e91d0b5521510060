package nlp

import (
	"fmt"
	"strings"
	"time"

	"github.com/agenthands/textgraph/internal/config"
)

// NewEngine builds the engine selected by cfg.Provider.
func NewEngine(cfg config.NLPConfig) (Engine, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "remote", "spacy":
		if cfg.Endpoint == "" {
			return nil, fmt.Errorf("nlp provider %q requires an endpoint", provider)
		}
		timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
		return NewRemoteEngine(cfg.Endpoint, timeout, cfg.MaxLength), nil

	case "hugot":
		model := cfg.Model
		if model == "" {
			model = DefaultHugotModel
		}
		dir := cfg.ModelDir
		if dir == "" {
			dir = "./models"
		}
		path, err := PrepareHugotModel(model, dir)
		if err != nil {
			return nil, err
		}
		return NewHugotEngine(path, cfg.MaxLength)

	default:
		return nil, fmt.Errorf("unsupported nlp provider: %s", provider)
	}
}
