package worker

import (
	"github.com/cenkalti/backoff/v4"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/persistence"
	"github.com/meetscribe/meetscribe/internal/pkg/rabbit"
	"github.com/meetscribe/meetscribe/internal/pkg/saver"
	"github.com/meetscribe/meetscribe/internal/pkg/summary"
	"github.com/meetscribe/meetscribe/internal/pkg/tasks"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

var appName = "MeetScribe Worker Service"

var rootCmd = &cobra.Command{
	Use:   "workerService",
	Short: appName,
	Long:  `Worker service listens for transcription and summarization jobs from the queue`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
}

// Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)

	dbProvider, err := persistence.NewDBProvider()
	cmdapp.CheckOrPanic(err, "Can't init database")
	defer dbProvider.Close()

	meetings := persistence.NewMeetingStore(dbProvider)
	transcripts := persistence.NewTranscriptStore(dbProvider)
	summaries := persistence.NewSummaryStore(dbProvider)
	actionItems := persistence.NewActionItemStore(dbProvider)
	tracker := tasks.NewTracker(persistence.NewTaskStore(dbProvider))

	fileSaver, err := saver.NewLocalFileSaver(cmdapp.Config.GetString("fileStorage.path"))
	cmdapp.CheckOrPanic(err, "Can't init file storage")

	transcriber, err := NewTranscriber()
	cmdapp.CheckOrPanic(err, "Can't init transcriber")
	summarizer, err := summary.NewClient()
	cmdapp.CheckOrPanic(err, "Can't init summarizer")

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init broker provider")
	defer msgChannelProvider.Close()

	err = backoff.Retry(func() error {
		_, err := msgChannelProvider.Channel()
		if err != nil {
			cmdapp.Log.Warn("Can't reach broker, retrying: ", err)
		}
		return err
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 8))
	cmdapp.CheckOrPanic(err, "Can't connect to broker")

	data := ServiceData{}
	data.Meetings = meetings
	data.Tracker = tracker
	data.Pipeline = NewPipeline(
		NewTranscribeStage(meetings, transcripts, tracker, transcriber, fileSaver,
			rabbit.NewSender(msgChannelProvider)),
		NewSummarizeStage(meetings, transcripts, summaries, actionItems, tracker, summarizer))

	data.WorkChs = make(map[string]<-chan amqp.Delivery)
	for _, lane := range messages.Lanes() {
		err = msgChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
			_, err := rabbit.Declare(ch, lane)
			return err
		})
		cmdapp.CheckOrPanic(err, "Can't declare queue "+lane)
		data.WorkChs[lane], err = rabbit.NewChannel(msgChannelProvider, lane)
		cmdapp.CheckOrPanic(errors.Wrap(err, "Can't listen "+lane+" channel"), "")
	}

	fc, err := StartWorkerService(&data)
	cmdapp.CheckOrPanic(err, "Can't start service")
	<-fc
	cmdapp.Log.Infof("Exiting service")
}
