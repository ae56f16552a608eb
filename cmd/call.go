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
	"context"
	"time"

	"github.com/pollwatch/pollwatch/lib/monitor"
	"github.com/pollwatch/pollwatch/lib/notify"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var callMessage string

// callCmd sends one test notification so the channel setup can be verified
// end to end
var callCmd = &cobra.Command{
	Use:   "call",
	Short: "Send a test notification over the configured channels",
	Run: func(cmd *cobra.Command, args []string) {
		notifier, err := notify.New(log)
		if err != nil {
			log.WithError(err).Fatal("Bad notification config - see .env.example")
		}

		numbers := monitor.SplitNumbers(viper.GetString("twilio.to"))
		if len(numbers) == 0 {
			log.Warn("TWILIO_TO_NUMBER not set - phone channels have nobody to reach")
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		if err := notifier.Notify(ctx, numbers, callMessage); err != nil {
			log.WithError(err).Fatal("Test notification failed")
		}
		log.Info("Test notification sent - your phone should ring shortly")
	},
}

func init() {
	rootCmd.AddCommand(callCmd)
	callCmd.Flags().StringVar(&callMessage, "message", "This is a test call from pollwatch. Your setup works!", "Message to speak on the call")
}
