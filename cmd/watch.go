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
	"os"
	"os/signal"
	"syscall"

	"github.com/pollwatch/pollwatch/lib/fetch"
	"github.com/pollwatch/pollwatch/lib/monitor"
	"github.com/pollwatch/pollwatch/lib/notify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// watchCmd represents the watch command
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run a single monitor from the environment until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := monitor.ConfigFromViper()
		if err != nil {
			log.WithError(err).Fatal("Bad monitor config - see .env.example")
		}

		notifier, err := notify.New(log)
		if err != nil {
			log.WithError(err).Fatal("Bad notification config - see .env.example")
		}

		mgr := monitor.NewManager(fetch.NewClient(log), notifier, log)
		sess, err := mgr.Start(cfg)
		if err != nil {
			log.WithError(err).Fatal("Couldn't start monitor")
		}
		log.WithFields(logrus.Fields{
			"monitor.id":  sess.ID,
			"poll.url":    cfg.PollURL,
			"interval":    cfg.Interval,
			"numbers.len": len(cfg.Numbers),
		}).Info("Watching")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		log.Info("Stopping...")
		mgr.StopAll()
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
