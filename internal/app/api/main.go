package api

import (
	"time"

	"github.com/heptiolabs/healthcheck"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/persistence"
	"github.com/meetscribe/meetscribe/internal/pkg/rabbit"
	"github.com/meetscribe/meetscribe/internal/pkg/saver"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

var appName = "MeetScribe API Service"

var rootCmd = &cobra.Command{
	Use:   "apiService",
	Short: appName,
	Long:  `HTTP service for uploading meeting audio and tracking its processing`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "p", 0, "Default service port")
	cmdapp.LogIf(cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port")))
	cmdapp.Config.SetDefault("port", 8000)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	data := ServiceData{}
	data.Port = cmdapp.Config.GetInt("port")

	dbProvider, err := persistence.NewDBProvider()
	cmdapp.CheckOrPanic(err, "Can't init database")
	defer dbProvider.Close()
	data.Meetings = persistence.NewMeetingStore(dbProvider)
	data.Tasks = persistence.NewTaskStore(dbProvider)
	data.Summaries = persistence.NewSummaryStore(dbProvider)
	data.ActionItems = persistence.NewActionItemStore(dbProvider)

	fileSaver, err := saver.NewLocalFileSaver(cmdapp.Config.GetString("fileStorage.path"))
	cmdapp.CheckOrPanic(err, "Can't init file storage")
	data.Saver = fileSaver

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init broker provider")
	defer msgChannelProvider.Close()
	err = msgChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		for _, lane := range messages.Lanes() {
			if _, err := rabbit.Declare(ch, lane); err != nil {
				return err
			}
		}
		return nil
	})
	cmdapp.CheckOrPanic(err, "Can't declare queues")
	data.Enqueuer = rabbit.NewSender(msgChannelProvider)

	data.Health = healthcheck.NewHandler()
	data.Health.AddLivenessCheck("fs", fileSaver.HealthyFunc())
	data.Health.AddReadinessCheck("db", healthcheck.Async(dbProvider.Healthy, 10*time.Second))
	data.Health.AddReadinessCheck("broker", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start the service")
}
