// Package debug hosts the optional eino visual debug server.
package debug

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino-ext/devops"

	"coinsage/config"
)

type EinoDebugger struct {
	config *config.Config
	ctx    context.Context
}

func NewEinoDebugger(cfg *config.Config) *EinoDebugger {
	return &EinoDebugger{
		config: cfg,
		ctx:    context.Background(),
	}
}

func (d *EinoDebugger) Initialize() error {
	if !d.config.EinoDebugEnabled {
		return nil
	}

	if err := devops.Init(d.ctx); err != nil {
		return fmt.Errorf("failed to initialize eino debug plugin: %w", err)
	}

	if d.config.Debug {
		log.Printf("[EinoDebug] debug server available at %s", d.DebugURL())
	}
	return nil
}

func (d *EinoDebugger) IsEnabled() bool {
	return d.config.EinoDebugEnabled
}

func (d *EinoDebugger) DebugURL() string {
	if !d.config.EinoDebugEnabled {
		return ""
	}
	return fmt.Sprintf("http://localhost:%d", d.config.EinoDebugPort)
}
