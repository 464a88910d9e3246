package domain

import (
	"context"
	"encoding/json"

	"framestat/pkg/utils"
)

// InstanceConfig represents the top-level instance configuration
type InstanceConfig struct {
	Name    string            `json:"name"`
	Loggers []json.RawMessage `json:"loggers"`
}

func (c *InstanceConfig) Valid(ctx context.Context) map[string]string {
	problems := make(map[string]string, 2)

	err := utils.CheckName(c.Name)
	if err != nil {
		problems["name"] = err.Error()
	}

	if len(c.Loggers) == 0 {
		problems["loggers"] = "loggers cannot be empty"
	}

	return problems
}
