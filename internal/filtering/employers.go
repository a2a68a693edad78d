package filtering

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/resume-agent/internal/headhunter"
)

// employersFilter hides listings from employers the user never wants to see.
// Entries may be HeadHunter employer IDs or employer names.
type employersFilter struct {
	toggle
	blocked []string
}

func NewEmployers() Filter {
	return &employersFilter{}
}

func (f *employersFilter) Name() string { return "employers" }

func (f *employersFilter) Validate(cfg *Config) error {
	f.blocked = f.blocked[:0]
	if cfg == nil {
		return nil
	}

	seen := make(map[string]struct{}, len(cfg.Employers))
	for _, entry := range cfg.Employers {
		entry = strings.TrimSpace(entry)
		key := strings.ToLower(entry)
		if entry == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		f.blocked = append(f.blocked, entry)
	}
	return nil
}

func (f *employersFilter) Apply(_ context.Context, deps Deps, v *headhunter.Vacancies) (*headhunter.Vacancies, Step, error) {
	step := Step{Initial: v.Len()}
	if len(f.blocked) == 0 {
		step.Left = step.Initial
		return v, step, nil
	}

	dropped := v.ExcludeEmployers(f.blocked)
	step.Dropped = len(dropped)
	step.Left = v.Len()

	if step.Dropped > 0 {
		deps.Logger.Info("hiding listings from blocked employers",
			zap.Strings("blocked_employers", f.blocked),
			zap.Strings("hidden_vacancies", dropped),
			zap.Int("listings_left", step.Left),
		)
	}

	return v, step, nil
}

func (f *employersFilter) Status() Status {
	details := map[string]string{}
	if len(f.blocked) > 0 {
		details["blocked"] = strings.Join(f.blocked, ", ")
	}
	return Status{Name: f.Name(), Enabled: f.IsEnabled(), Reason: f.reason, Details: details}
}
