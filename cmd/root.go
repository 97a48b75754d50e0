/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var (
	cfgFile     string
	logFile     string
	verbose     bool
	profileMode string
	profiler    interface{ Stop() }
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gofredholm",
	Short: "Fredholm integral equations of the second kind",
	Long: `
Solves u(x) = f(x) + lambda * Int_a^b K(x,t) u(t) dt by collocation or Galerkin
projection onto a polynomial, Fourier, Chebyshev or Legendre basis.

gofredholm solve -I problem.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
		if err = initConfig(cfgFile); err != nil {
			return
		}
		configureLogger(logFile, "", verbose)
		return startProfile(viper.GetString(profileConfigKey))
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if profiler != nil {
			profiler.Stop()
			profiler = nil
		}
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./gofredholm.yaml or $HOME/gofredholm.yaml)")
	rootCmd.PersistentFlags().StringVar(&logFile, logFileFlagName, "", "log file, rotated by size")
	rootCmd.PersistentFlags().BoolVarP(&verbose, verboseFlagName, "v", false, "debug level logging")
	rootCmd.PersistentFlags().StringVar(&profileMode, profileFlagName, "", "write a profile to the working directory: cpu or mem")
	bindFlagToConfig(rootCmd.PersistentFlags().Lookup(profileFlagName), profileConfigKey)
}

// bindFlagToConfig wires a cobra flag to a viper key so config and env values feed it
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}
	cobra.CheckErr(viper.BindPFlag(key, flag))
}

func startProfile(mode string) error {
	opts := []func(*profile.Profile){profile.ProfilePath("."), profile.NoShutdownHook, profile.Quiet}
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "":
		return nil
	case "cpu":
		opts = append(opts, profile.CPUProfile)
	case "mem":
		opts = append(opts, profile.MemProfile)
	default:
		return fmt.Errorf("unknown profile mode %q, use cpu or mem", mode)
	}
	profiler = profile.Start(opts...)
	globalLogger.Info("profiling", "mode", mode)
	return nil
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
