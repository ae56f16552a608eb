package cmd

/*
Copyright © 2024 Pollwatch Contributors

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program. If not, see <http://www.gnu.org/licenses/>.
*/

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/pollwatch/pollwatch/lib/df"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string
var rootLog *logrus.Logger
var log *logrus.Entry
var AmDebugging bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pollwatch",
	Short: "Watch a Poll Everywhere page and phone you when a poll goes live",
	Long: `Pollwatch polls a public Poll Everywhere page on an interval, detects when
an activity goes live or starts accepting responses, and places a phone call
through Twilio. Run 'pollwatch watch' for a single monitor from the
environment or 'pollwatch web' for the local dashboard.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log := log.WithFields(logrus.Fields{
			"args": args,
		})
		if log != nil {
			log.Debug("Starting up")
		}
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log := log.WithFields(logrus.Fields{
			"args": args,
		})
		if log != nil {
			log.Debug("All done")
		}
	},
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	cobra.OnInitialize(initConfig, initLogging)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pollwatch.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&AmDebugging, "debug", "d", false, "Enable debug mode")
	viper.SetDefault("log.level", "info")
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Pick up a local .env first so the env bindings below can see it
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		cobra.CheckErr(err)

		// Search config in home directory with name ".pollwatch" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".pollwatch")
	}

	viper.SetEnvPrefix("CFG")
	viper.AutomaticEnv() // read in environment variables that match CFG_XXXXXXX

	// The watcher's traditional env names, kept for .env compatibility
	cobra.CheckErr(viper.BindEnv("poll.url", "POLL_URL"))
	cobra.CheckErr(viper.BindEnv("twilio.sid", "TWILIO_ACCOUNT_SID"))
	cobra.CheckErr(viper.BindEnv("twilio.token", "TWILIO_AUTH_TOKEN"))
	cobra.CheckErr(viper.BindEnv("twilio.from", "TWILIO_FROM_NUMBER"))
	cobra.CheckErr(viper.BindEnv("twilio.to", "TWILIO_TO_NUMBER"))
	cobra.CheckErr(viper.BindEnv("twilio.twiml", "TWILIO_TWIML_URL"))
	cobra.CheckErr(viper.BindEnv("interval.sec", "INTERVAL_SEC"))
	cobra.CheckErr(viper.BindEnv("notify.channels", "NOTIFY_CHANNELS"))
	cobra.CheckErr(viper.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN"))
	cobra.CheckErr(viper.BindEnv("telegram.chat", "TELEGRAM_CHAT_ID"))

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}

	// Update debug mode from config
	if !AmDebugging && viper.GetBool("debug") {
		AmDebugging = true
	}

	// Save PORT env
	if p := os.Getenv("PORT"); p != "" {
		viper.Set("port", p)
	}
}

func initLogging() {
	rootLog = logrus.New()
	lvl, err := logrus.ParseLevel(viper.GetString("log.level"))
	if err != nil {
		panic("Bad log level: " + err.Error())
	}
	rootLog.SetLevel(lvl)
	rootLog.SetFormatter(&logrus.JSONFormatter{
		DisableTimestamp:  false,
		DisableHTMLEscape: false,
	})
	log = rootLog.WithFields(logrus.Fields{
		"app": rootCmd.Name(),
	})

	if AmDebugging {
		rootLog.SetLevel(logrus.DebugLevel)
	}

	df.SetLog(log)
	log.Debug("Init'ed logging")
}
