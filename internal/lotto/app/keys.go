package app

import (
	"log/slog"

	"github.com/aussiebroadwan/lotto/pkg/cryptox"
)

// initKeys points cryptox at the pepper and master key. Without a master
// key source every wrapped draw key becomes unreadable on restart, so that
// case is only tolerated in dev.
func initKeys(cfg Config, logger *slog.Logger) {
	cryptox.SetPepperPath(cfg.PepperFile)

	if cfg.MasterKeyPath != "" {
		cryptox.SetMasterKeyPath(cfg.MasterKeyPath)
		logger.Info("master key path configured", "path", cfg.MasterKeyPath)
	}

	if !cryptox.MasterKeyConfigured() {
		logger.Warn("no master key configured, using an ephemeral key; stored draws will not survive a restart",
			"env_var", cryptox.MasterKeyEnv,
		)
	}
}
