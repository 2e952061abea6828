package main

import (
	"context"
	"errors"

	"github.com/kbukum/offclient/observability"
	"github.com/kbukum/offclient/version"
)

// errUnhealthy is returned with the report when a service is not up.
var errUnhealthy = errors.New("one or more services are not healthy")

// healthOf turns a call outcome into a component health.
func healthOf(name string, err error, status string) observability.Health {
	if err != nil {
		return observability.Health{
			Name:    name,
			Status:  observability.HealthStatusDown,
			Message: err.Error(),
		}
	}
	return observability.Health{
		Name:    name,
		Status:  observability.HealthStatusUp,
		Details: map[string]string{"status": status},
	}
}

func folksonomyHealth(env *app) observability.HealthChecker {
	return observability.HealthCheckFunc(func(ctx context.Context) observability.Health {
		p, err := env.folksonomy.Ping(ctx).Unwrap()
		return healthOf("folksonomy", err, p.Ping)
	})
}

func nutripatrolHealth(env *app) observability.HealthChecker {
	return observability.HealthCheckFunc(func(ctx context.Context) observability.Health {
		s, err := env.nutripatrol.GetAPIStatus(ctx).Unwrap()
		return healthOf("nutripatrol", err, s.Status)
	})
}

var healthCommands = map[string]command{
	"check": {
		usage: "check",
		run: func(ctx context.Context, env *app, raw []string) (any, error) {
			if err := newArgs("check", 0).parse(raw); err != nil {
				return nil, err
			}
			sh := observability.CheckAll(ctx, env.cfg.Name, version.GetShortVersion(),
				folksonomyHealth(env), nutripatrolHealth(env))
			if sh.Status != observability.HealthStatusUp {
				return sh, errUnhealthy
			}
			return sh, nil
		},
	},
}
