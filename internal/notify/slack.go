// Package notify surfaces scheduled-run failures to operators over Slack so
// silent failures are visible without reading process logs.
package notify

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/slack-go/slack"
	"github.com/staffeye/internal/models"
)

type SlackNotifier struct {
	client  *slack.Client
	channel string
}

func NewSlackNotifier(token, channel string) *SlackNotifier {
	return &SlackNotifier{
		client:  slack.New(token),
		channel: channel,
	}
}

func (n *SlackNotifier) NotifyRunFailed(task models.ScheduledTask, reason string) error {
	attachment := slack.Attachment{
		Color: "#ff0000",
		Title: fmt.Sprintf("Scheduled report failed: %s", task.Name),
		Fields: []slack.AttachmentField{
			{
				Title: "Task ID",
				Value: strconv.FormatUint(uint64(task.ID), 10),
				Short: true,
			},
			{
				Title: "Report Kind",
				Value: string(task.Kind),
				Short: true,
			},
			{
				Title: "Schedule",
				Value: task.CronExpr,
				Short: true,
			},
			{
				Title: "Reason",
				Value: reason,
				Short: false,
			},
		},
		Footer: "StaffEye Report Scheduler",
		Ts:     json.Number(strconv.FormatInt(time.Now().Unix(), 10)),
	}

	_, _, err := n.client.PostMessage(
		n.channel,
		slack.MsgOptionAttachments(attachment),
	)
	if err != nil {
		return fmt.Errorf("failed to send slack notification: %v", err)
	}
	return nil
}
