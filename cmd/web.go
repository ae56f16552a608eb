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
	"github.com/pollwatch/pollwatch/lib/fetch"
	"github.com/pollwatch/pollwatch/lib/handlers"
	"github.com/pollwatch/pollwatch/lib/monitor"
	"github.com/pollwatch/pollwatch/lib/notify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// webCmd represents the web command
var webCmd = &cobra.Command{
	Use:   "web",
	Short: "Run the dashboard, API, and TwiML callback server",
	Run: func(cmd *cobra.Command, args []string) {
		var notifier monitor.Notifier
		n, err := notify.New(log)
		if err != nil {
			// Monitors can't start until the channels are configured, but
			// the TwiML endpoint and dashboard still need to be up.
			log.WithError(err).Warn("Notifications not configured - monitors will refuse to start")
		} else {
			notifier = n
		}

		mgr := monitor.NewManager(fetch.NewClient(log), notifier, log)
		defer mgr.StopAll()

		// Add handlers
		handlers.RegisterHandlers(ginEngine, mgr)

		if err := ginEngine.Run(viper.GetString("listen") + ":" + viper.GetString("port")); err != nil {
			log.WithError(err).Fatal("Problem running GIN")
		}
	},
}

func init() {
	rootCmd.AddCommand(webCmd)
	viper.SetDefault("listen", "0.0.0.0")
	viper.SetDefault("port", 5001)
}
