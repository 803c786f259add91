package http

import (
	"encoding/json"
	"net/http"

	"moranda/internal/domain"
	"moranda/internal/ports/input"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	"github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"
)

// SlackEventsHandler struct - Primary/Driving adapter for the Slack Events API
type SlackEventsHandler struct {
	service       input.SlackEventService
	signingSecret string
}

// NewSlackEventsHandler func - Creates new Slack events handler.
// An empty signing secret disables request verification.
func NewSlackEventsHandler(service input.SlackEventService, signingSecret string) *SlackEventsHandler {
	return &SlackEventsHandler{
		service:       service,
		signingSecret: signingSecret,
	}
}

// HandleEvents func - Handles incoming Slack Events API requests
// @Summary Slack Events
// @Description Handles url_verification and message callbacks from the Slack Events API
// @Tags SLACK
// @Accept application/json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /webhook/slack [post]
func (h *SlackEventsHandler) HandleEvents(c *fiber.Ctx) error {
	body := c.Body()

	if h.signingSecret != "" {
		if err := h.verify(c, body); err != nil {
			logrus.Warnf("Rejected Slack request: %v", err)
			return c.Status(fiber.StatusUnauthorized).JSON(ResponseBody{Status: Unauthorized})
		}
	}

	// Slack redelivers events it thinks timed out; the first delivery already started the work
	if c.Get("X-Slack-Retry-Num") != "" {
		return c.SendStatus(fiber.StatusOK)
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		logrus.Errorf("Failed to parse Slack event: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			logrus.Errorln(err)
			return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
		return c.Status(fiber.StatusOK).SendString(challenge.Challenge)

	case slackevents.CallbackEvent:
		message, ok := event.InnerEvent.Data.(*slackevents.MessageEvent)
		if !ok {
			logrus.Debugf("Unhandled inner event type: %s", event.InnerEvent.Type)
			return c.SendStatus(fiber.StatusOK)
		}
		// failures are reported in the channel and to operators; retries are dropped above, so always ack
		if err := h.service.HandleMessage(c.UserContext(), convertMessageEvent(event.TeamID, message)); err != nil {
			logrus.Errorf("Failed to handle message event: %v", err)
		}
		return c.SendStatus(fiber.StatusOK)

	default:
		logrus.Infof("Unhandled event type: %s", event.Type)
		return c.SendStatus(fiber.StatusOK)
	}
}

// verify checks the request signature against the signing secret
func (h *SlackEventsHandler) verify(c *fiber.Ctx, body []byte) error {
	header := make(http.Header)
	c.Request().Header.VisitAll(func(key, value []byte) {
		header.Set(string(key), string(value))
	})

	verifier, err := slack.NewSecretsVerifier(header, h.signingSecret)
	if err != nil {
		return err
	}
	if _, err := verifier.Write(body); err != nil {
		return err
	}
	return verifier.Ensure()
}

// convertMessageEvent - Converts a Slack message event to the domain event
func convertMessageEvent(team string, event *slackevents.MessageEvent) domain.MessageEvent {
	return domain.MessageEvent{
		Team:    team,
		Channel: event.Channel,
		User:    event.User,
		Text:    event.Text,
		BotID:   event.BotID,
		SubType: event.SubType,
	}
}
