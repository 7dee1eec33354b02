package app

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/client-go/util/homedir"
)

const configFlagName = "config"

// addConfigFlag registers --config on fs. Values are later read from that
// file, falling back to $HOME/.<basename>/ and the working directory, and from
// <BASENAME>_* environment variables.
func addConfigFlag(v *viper.Viper, basename string, fs *pflag.FlagSet) *string {
	cfgFile := fs.StringP(configFlagName, "c", "", "Read configuration from the specified file; supports JSON, TOML, YAML, HCL, or Java properties formats.")

	v.AutomaticEnv()
	v.SetEnvPrefix(strings.ToUpper(strings.ReplaceAll(basename, "-", "_")))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	return cfgFile
}

// loadConfig reads the configuration file, if any. A missing default file is
// not an error; a missing explicit one is.
func loadConfig(v *viper.Viper, basename, cfgFile string) (bool, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		if home := homedir.HomeDir(); home != "" {
			v.AddConfigPath(filepath.Join(home, "."+basename))
		}
		v.SetConfigName(basename)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to read configuration file(%s): %w", cfgFile, err)
	}
	return true, nil
}

// watchConfig calls onChange whenever the loaded configuration file is written.
func watchConfig(v *viper.Viper, onChange func(v *viper.Viper)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		fmt.Fprintf(os.Stderr, "Configuration file changed: %s\n", e.Name)
		onChange(v)
	})
	v.WatchConfig()
}
