package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoader(t *testing.T) {
	loader := NewLoader()
	assert.NotNil(t, loader)
}

func TestLoader_SetupViperDefaults(t *testing.T) {
	viper.Reset()
	loader := NewLoader()
	loader.setupViperDefaults()

	assert.Equal(t, DefaultPlanPath, viper.GetString("plan"))
	assert.Equal(t, DefaultSuite, viper.GetString("suite"))
	assert.Equal(t, false, viper.GetBool("verbose"))
	assert.Equal(t, false, viper.GetBool("no_cache"))
}

func TestLoader_LoadGlobalConfig(t *testing.T) {
	// Point the user config dir at a temp directory
	tempDir := t.TempDir()
	dtgenDir := filepath.Join(tempDir, "dtgen")
	err := os.Mkdir(dtgenDir, 0o755)
	require.NoError(t, err)

	t.Setenv("XDG_CONFIG_HOME", tempDir)

	t.Run("loads yaml config", func(t *testing.T) {
		viper.Reset()
		configPath := filepath.Join(dtgenDir, "config.yml")
		configContent := `suite: "doc-tests"
verbose: true`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadGlobalConfig()

		assert.Equal(t, "doc-tests", viper.GetString("suite"))
		assert.Equal(t, true, viper.GetBool("verbose"))
	})

	t.Run("loads json config", func(t *testing.T) {
		viper.Reset()

		// Remove YAML file
		os.Remove(filepath.Join(dtgenDir, "config.yml"))

		configPath := filepath.Join(dtgenDir, "config.json")
		configContent := `{
  "suite": "json-tests",
  "no_cache": true
}`
		err := os.WriteFile(configPath, []byte(configContent), 0o644)
		require.NoError(t, err)

		loader := NewLoader()
		loader.loadGlobalConfig()

		assert.Equal(t, "json-tests", viper.GetString("suite"))
		assert.Equal(t, true, viper.GetBool("no_cache"))
	})

	t.Run("no config dir is not an error", func(t *testing.T) {
		viper.Reset()
		t.Setenv("XDG_CONFIG_HOME", filepath.Join(tempDir, "missing"))

		loader := NewLoader()
		loader.loadGlobalConfig()

		assert.Equal(t, "", viper.GetString("suite"))
	})
}

func TestLoader_LoadLocalConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	tempDir := t.TempDir()
	planPath := filepath.Join(tempDir, "build-plan.json")

	localConfig := filepath.Join(tempDir, ".dtgen.yml")
	err := os.WriteFile(localConfig, []byte(`suite: "local-tests"`), 0o644)
	require.NoError(t, err)

	loader := NewLoader()
	loader.loadLocalConfig([]string{planPath})

	assert.Equal(t, "local-tests", viper.GetString("suite"))
}

func TestLoader_LoadForGen(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cmd := &cobra.Command{}
	cmd.Flags().String("plan", "", "")
	cmd.Flags().String("suite", "", "")
	cmd.Flags().String("toolchain", "", "")
	cmd.Flags().String("cache-dir", "", "")
	cmd.Flags().Bool("no-cache", false, "")
	cmd.Flags().Bool("verbose", false, "")

	err := cmd.Flags().Set("suite", "flag-tests")
	require.NoError(t, err)

	loader := NewLoader()
	cfg, err := loader.LoadForGen(cmd, nil)
	require.NoError(t, err)

	assert.Equal(t, "flag-tests", cfg.Suite)
	expectedPlan, _ := filepath.Abs(DefaultPlanPath)
	assert.Equal(t, expectedPlan, cfg.PlanPath)
}
