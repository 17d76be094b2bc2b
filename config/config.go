package config

import (
	"github.com/spf13/viper"

	"github.com/trikdhar/mymake/internal/export"
	"github.com/trikdhar/mymake/internal/safety"
	"github.com/trikdhar/mymake/internal/shell"
)

// defaultSpecFile is the specification file name mymake looks for
// when -f is not given.
const defaultSpecFile = "mymake3.mk"

// Config is the fully merged configuration for one invocation.
// Project-level ./.mymake.yaml overrides global $HOME/.mymake.yaml
// field by field; slice-valued settings (safety/export/shell target
// exclusions) are unioned instead of overridden, per merge.go.
type Config struct {
	SpecFile        string // -f default
	ContinueOnError bool   // -k default
	Debug           bool   // -d default
	BlockSIGINT     bool   // -i default
	TimeoutSeconds  int    // -t default, 0 = no timeout
	SafetyAbort     bool   // escalate a critical safety match to abort instead of warn
	MyPath          string // colon-separated search path, printed by shell-init's MYPATH export

	Export export.Config
	Shell  shell.Config
	Safety safety.Config
}

func defaults() *Config {
	return &Config{
		SpecFile: defaultSpecFile,
		Export:   *export.Defaults(),
		Shell:    *shell.Defaults(),
		Safety:   *safety.DefaultConfig(),
	}
}

// Load reads the project config (./.mymake.yaml) and the global config
// ($HOME/.mymake.yaml), merges them — project wins on scalars, slices
// are unioned — and returns the result. A missing file at either
// location is not an error; Load always returns a usable Config.
func Load() (*Config, error) {
	global := loadViperFromFile(globalConfigPath())
	project := loadViperFromFile(projectConfigPath())

	cfg := defaults()
	cfg.SpecFile = stringSetting(global, project, "spec_file", cfg.SpecFile)
	cfg.ContinueOnError = boolSetting(global, project, "continue_on_error", cfg.ContinueOnError)
	cfg.Debug = boolSetting(global, project, "debug", cfg.Debug)
	cfg.BlockSIGINT = boolSetting(global, project, "block_sigint", cfg.BlockSIGINT)
	cfg.TimeoutSeconds = intSetting(global, project, "timeout_seconds", cfg.TimeoutSeconds)
	cfg.SafetyAbort = boolSetting(global, project, "safety_abort_on_critical", cfg.SafetyAbort)
	cfg.MyPath = stringSetting(global, project, "mypath", cfg.MyPath)

	exportGlobal, exportGlobalSet := readExportConfig(global)
	exportProject, exportProjectSet := readExportConfig(project)
	cfg.Export = *mergeExportConfigs(exportGlobal, exportProject, exportGlobalSet, exportProjectSet)

	shellGlobal, shellGlobalSet := readShellConfig(global)
	shellProject, shellProjectSet := readShellConfig(project)
	cfg.Shell = *mergeShellConfigs(shellGlobal, shellProject, shellGlobalSet, shellProjectSet)

	safetyGlobal, safetyGlobalSet := readSafetyConfig(global)
	safetyProject, safetyProjectSet := readSafetyConfig(project)
	cfg.Safety = *mergeSafetyConfigs(safetyGlobal, safetyProject, safetyGlobalSet, safetyProjectSet)

	return cfg, nil
}

func stringSetting(global, project *viper.Viper, key, def string) string {
	val := def
	if global != nil && global.IsSet(key) {
		val = global.GetString(key)
	}
	if project != nil && project.IsSet(key) {
		val = project.GetString(key)
	}
	return val
}

func boolSetting(global, project *viper.Viper, key string, def bool) bool {
	val := def
	if global != nil && global.IsSet(key) {
		val = global.GetBool(key)
	}
	if project != nil && project.IsSet(key) {
		val = project.GetBool(key)
	}
	return val
}

func intSetting(global, project *viper.Viper, key string, def int) int {
	val := def
	if global != nil && global.IsSet(key) {
		val = global.GetInt(key)
	}
	if project != nil && project.IsSet(key) {
		val = project.GetInt(key)
	}
	return val
}
