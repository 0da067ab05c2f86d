package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/abcfit/fitbanker-go/internal/a2a"
	"github.com/abcfit/fitbanker-go/internal/agents"
	"github.com/abcfit/fitbanker-go/internal/config"
	"github.com/abcfit/fitbanker-go/internal/orchestrator"
	"github.com/abcfit/fitbanker-go/internal/providers"
	"github.com/abcfit/fitbanker-go/internal/sessioncache"
	"github.com/abcfit/fitbanker-go/internal/store"
	"github.com/abcfit/fitbanker-go/internal/transcript"
)

// makeProvider creates an LLM provider from the loaded config.
// It falls back to common env vars when the config has no API key.
func makeProvider(cfg config.Config) *providers.OpenAIProvider {
	apiKey := cfg.Provider.APIKey
	if apiKey == "" {
		for _, envKey := range []string{"OPENROUTER_API_KEY", "OPENAI_API_KEY"} {
			if v := os.Getenv(envKey); v != "" {
				apiKey = v
				break
			}
		}
	}

	apiBase := cfg.Provider.APIBase
	if apiBase == "" && strings.HasPrefix(apiKey, "sk-or-") {
		apiBase = providers.DefaultAPIBase
	}

	return providers.NewOpenAIProvider(apiKey, apiBase, cfg.Provider.Model)
}

// runtime bundles the wired agent system shared by serve and chat.
type runtime struct {
	channel  *a2a.Channel
	sessions *sessioncache.Cache
	orch     *orchestrator.Orchestrator
	store    store.Store
}

func (r *runtime) close() {
	r.sessions.Close()
	r.store.Close()
}

// buildRuntime wires store, cache, provider, channel, transcript, boss and
// specialists into an orchestrator.
func buildRuntime(cfg config.Config, pacing orchestrator.Pacing) (*runtime, error) {
	st, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	sessions := sessioncache.New(sessioncache.Config{
		URL:      cfg.Redis.URL,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, st)

	specs, err := agents.LoadSpecs(cfg.AgentsFile)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("loading agent specs: %w", err)
	}

	provider := makeProvider(cfg)
	channel := a2a.NewChannel()
	ts := transcript.NewStore()

	boss := agents.NewBoss(channel, provider, ts)
	var specialists []*agents.Specialist
	for _, spec := range specs {
		specialists = append(specialists, agents.NewSpecialist(spec, channel, provider, ts, st))
	}

	if err := channel.ValidateTargets(agents.RouteTargets(specs)...); err != nil {
		st.Close()
		return nil, fmt.Errorf("validating route targets: %w", err)
	}

	orch := orchestrator.New(channel, ts, boss, specialists, sessions, pacing)
	return &runtime{channel: channel, sessions: sessions, orch: orch, store: st}, nil
}

func pacingFromConfig(cfg config.Config) orchestrator.Pacing {
	return orchestrator.Pacing{
		PreThink:   msToDuration(cfg.Pacing.PreThinkMs),
		PostThink:  msToDuration(cfg.Pacing.PostThinkMs),
		PerMessage: msToDuration(cfg.Pacing.PerMessageMs),
	}
}

func msToDuration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}
