package worker

import (
	"context"
	"encoding/json"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// ServiceData keeps data required for service work
type ServiceData struct {
	Pipeline *Pipeline
	Meetings Meetings
	Tracker  Tracker

	// WorkChs maps lane name to its consume channel
	WorkChs map[string]<-chan amqp.Delivery
}

// StartWorkerService starts queue listeners for every lane.
// Returns a channel that signals when a listener stops.
func StartWorkerService(data *ServiceData) (<-chan bool, error) {
	if data.Pipeline == nil {
		return nil, errors.New("No pipeline")
	}
	if data.Meetings == nil {
		return nil, errors.New("No meeting storage")
	}
	if data.Tracker == nil {
		return nil, errors.New("No task tracker")
	}
	if len(data.WorkChs) == 0 {
		return nil, errors.New("No work channels")
	}

	fc := make(chan bool)
	for lane, ch := range data.WorkChs {
		cmdapp.Log.Infof("Starting listen for messages on %s", lane)
		go listenQueue(data, lane, ch, fc)
	}
	return fc, nil
}

func listenQueue(data *ServiceData, lane string, ch <-chan amqp.Delivery, fc chan<- bool) {
	for d := range ch {
		if err := processMsg(&d, data); err != nil {
			cmdapp.Log.Error("Message error ", err)
			d.Nack(false, false)
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue %s", lane)
	fc <- true
}

// processMsg runs one queue message through its pipeline stage.
// A stage failure is recorded on the task and meeting and the message is
// still acked - the task row is the retry ledger, not the broker.
func processMsg(d *amqp.Delivery, data *ServiceData) error {
	var msg messages.QueueMessage
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return errors.Wrap(err, "Can't unmarshal message "+string(d.Body))
	}
	stage, err := data.Pipeline.Find(msg.Stage)
	if err != nil {
		return err
	}
	cmdapp.Log.Infof("Got %s job for meeting %s", msg.Stage, msg.MeetingID)
	if err := stage.Run(context.Background(), &msg); err != nil {
		cmdapp.Log.Error("Stage failed ", err)
		markFailed(data, &msg, err)
	} else {
		cmdapp.Log.Infof("Msg processed")
	}
	return nil
}

// markFailed records a stage error on both the task and the meeting
func markFailed(data *ServiceData, msg *messages.QueueMessage, stageErr error) {
	if err := data.Tracker.Fail(msg.TaskID, stageErr.Error()); err != nil {
		cmdapp.Log.Error("Can't mark task failed ", err)
	}
	m, err := data.Meetings.Get(msg.MeetingID)
	if err != nil {
		cmdapp.Log.Error("Can't load meeting ", err)
		return
	}
	if err := m.SetStatus(model.MeetingFailed); err != nil {
		cmdapp.Log.Error("Can't mark meeting failed ", err)
		return
	}
	m.StatusReason = stageErr.Error()
	if err := data.Meetings.Save(m); err != nil {
		cmdapp.Log.Error("Can't save meeting ", err)
	}
}
