package api

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/meetscribe/meetscribe/internal/pkg/cmdapp"
	"github.com/meetscribe/meetscribe/internal/pkg/messages"
	"github.com/meetscribe/meetscribe/internal/pkg/model"
	"github.com/pkg/errors"
)

const defaultLanguage = "yue"

// UploadResult - post method response in JSON
type UploadResult struct {
	MeetingID string `json:"meetingId"`
	TaskID    string `json:"taskId"`
	JobID     string `json:"jobId"`
}

type uploadHandler struct {
	data *ServiceData
}

func (h uploadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cmdapp.Log.Infof("Saving file from %s", r.Host)

	err := r.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(w, "Can't parse MultipartForm", http.StatusBadRequest)
		cmdapp.Log.Error(errors.Wrap(err, "Can't parse MultipartForm"))
		return
	}
	defer cleanFiles(r.MultipartForm)

	file, handler, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "No file", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(handler.Filename))
	if !checkFileExtension(ext) {
		http.Error(w, "wrong file extension: "+ext, http.StatusBadRequest)
		cmdapp.Log.Errorf("Wrong file extension: %s", ext)
		return
	}

	title := r.FormValue("title")
	if title == "" {
		title = strings.TrimSuffix(handler.Filename, filepath.Ext(handler.Filename))
	}
	language := r.FormValue("language")
	if language == "" {
		language = defaultLanguage
	}
	ws := workspaceID(r)
	if ws == "" {
		ws = r.FormValue("workspaceId")
	}

	meeting := &model.Meeting{Title: title, Description: r.FormValue("description"),
		LanguageCode: language, Status: model.MeetingUploaded,
		Template: r.FormValue("template"), Tags: splitTags(r.FormValue("tags"))}
	if ws != "" {
		meeting.WorkspaceID = &ws
	}
	if err := h.data.Meetings.Create(meeting); err != nil {
		http.Error(w, "Can not save meeting", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	meeting.AudioPath, err = h.data.Saver.Save(file, handler.Filename, meeting.ID)
	if err != nil {
		http.Error(w, "Can not save file", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	if err := h.data.Meetings.Save(meeting); err != nil {
		http.Error(w, "Can not save meeting", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	task := &model.ProcessingTask{WorkspaceID: ws, Filename: handler.Filename,
		FileSize: handler.Size, Status: model.TaskQueued, MeetingID: &meeting.ID,
		Logs: []string{fmt.Sprintf("[%s] File uploaded, queued for processing",
			time.Now().UTC().Format("2006-01-02 15:04:05"))}}
	if err := h.data.Tasks.Create(task); err != nil {
		http.Error(w, "Can not save task", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	jobID, err := h.data.Enqueuer.Enqueue(
		messages.NewQueueMessage(messages.StageTranscribe, meeting.ID, task.ID),
		messages.Default, messages.DefaultJobOpts())
	if err != nil {
		cmdapp.Log.Error(err)
		if sErr := task.SetStatus(model.TaskFailed); sErr == nil {
			task.ErrorMessage = "Can't queue transcription: " + err.Error()
			cmdapp.LogIf(h.data.Tasks.Save(task))
		}
		http.Error(w, "Can not queue transcription", http.StatusInternalServerError)
		return
	}
	task.JobID = jobID
	if err := h.data.Tasks.Save(task); err != nil {
		http.Error(w, "Can not save task", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}

	encodeResponse(w, &UploadResult{MeetingID: meeting.ID, TaskID: task.ID, JobID: jobID})
}

func cleanFiles(f *multipart.Form) {
	if f != nil {
		f.RemoveAll()
	}
}

func splitTags(s string) []string {
	var res []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			res = append(res, t)
		}
	}
	return res
}

func checkFileExtension(ext string) bool {
	switch ext {
	case ".wav", ".mp3", ".m4a", ".aac", ".flac", ".ogg":
		return true
	}
	return false
}
