package notify

import (
	"context"
	"log"
	"net/http"
)

// Warn pushes an infrastructure warning through the same notice service used
// for user-facing messages. Delivery is best-effort: failures are logged and
// dropped so a broken notice service can never take the pipeline down with it.
func (d *Dispatcher) Warn(ctx context.Context, message, module string) {
	body := Message{
		Message: message,
		From:    d.cfg.ChatFrom,
		To:      d.cfg.ChatTo,
		Type:    typeCodePush,
		Title:   module + "告警",
	}

	res, err := d.post(ctx, ChannelPush, "/notice", body)
	if err != nil {
		log.Printf("notify: warning delivery failed for module %s: %v", module, err)
		return
	}
	if res.StatusCode != http.StatusOK {
		// TODO: retry failed warning posts
		log.Printf("notify: warning post returned %d: %s", res.StatusCode, res.Body)
	}
}
