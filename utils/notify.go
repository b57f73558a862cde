package utils

import (
	"log"
	"time"

	"lms/config"

	"github.com/go-resty/resty/v2"
)

// NotifyAsync posts an event to the configured notification webhook in the
// background. Delivery is fire-and-forget: failures are logged and never
// affect the triggering progress or approval event.
func NotifyAsync(event string, payload map[string]interface{}) {
	if config.AppConfig == nil || config.AppConfig.NotifyWebhookURL == "" {
		return
	}
	url := config.AppConfig.NotifyWebhookURL

	go func() {
		client := resty.New().SetTimeout(5 * time.Second)

		body := map[string]interface{}{
			"event":   event,
			"sent_at": time.Now().Format(time.RFC3339),
			"data":    payload,
		}

		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(body).
			Post(url)
		if err != nil {
			log.Printf("Notification %s failed: %v", event, err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("Notification %s rejected with status %d", event, resp.StatusCode())
		}
	}()
}
