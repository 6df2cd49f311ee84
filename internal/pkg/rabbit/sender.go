package rabbit

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// Sender enqueues jobs using the rabbit mq broker
type Sender struct {
	ChannelProvider *ChannelProvider
}

// NewSender initializes rabbit sender
func NewSender(provider *ChannelProvider) *Sender {
	return &Sender{ChannelProvider: provider}
}

// Enqueue publishes the job on a lane and returns a generated job id.
// The id is assigned client-side so the caller can persist it before
// publish confirmation - task rows, not the broker, track resumability.
func (sender *Sender) Enqueue(msg *messages.QueueMessage, lane string, opts *messages.JobOpts) (string, error) {
	jobID := uuid.New().String()
	cmdapp.Log.Infof("Enqueue %s(%s) on %s, job %s", msg.Stage, msg.MeetingID, lane, jobID)

	msgBytes, err := json.Marshal(msg)
	if err != nil {
		return "", errors.Wrap(err, "Can't marshal message")
	}

	headers := amqp.Table{}
	if opts != nil {
		if opts.Timeout > 0 {
			headers["x-job-timeout-sec"] = strconv.Itoa(int(opts.Timeout.Seconds()))
		}
		if opts.ResultRetention > 0 {
			headers["x-result-ttl-sec"] = strconv.Itoa(int(opts.ResultRetention.Seconds()))
		}
		if opts.FailureRetention > 0 {
			headers["x-failure-ttl-sec"] = strconv.Itoa(int(opts.FailureRetention.Seconds()))
		}
	}

	err = sender.ChannelProvider.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		return ch.Publish(
			"", // exchange
			lane,
			false, // mandatory
			false,
			amqp.Publishing{
				DeliveryMode: amqp.Persistent,
				ContentType:  "application/json",
				MessageId:    jobID,
				Body:         msgBytes,
				Headers:      headers,
			})
	})
	if err != nil {
		defer sender.ChannelProvider.Close() // lets init sender again
		return "", errors.Wrap(err, "Can't send message")
	}
	return jobID, nil
}
