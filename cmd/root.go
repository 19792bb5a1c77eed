package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ablate",
	Short: "Boundary gradient reconstruction on finite volume meshes",
	Long: `
Reconstructs gradients of cell centered fields at the boundary faces of a
labeled region using least squares stencils, then writes them back as point or
distributed source terms.

ablate gradient -I input.yaml`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ablate.yaml)")
	rootCmd.PersistentFlags().Int("partitions", 0, "number of mesh partitions, overrides the input file")
	rootCmd.PersistentFlags().String("outputDirectory", "", "directory for profiles and other output")
	_ = viper.BindPFlag("outputDirectory", rootCmd.PersistentFlags().Lookup("outputDirectory"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		// Search config in home directory with name ".ablate" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".ablate")
	}
	viper.SetEnvPrefix("ablate")
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
