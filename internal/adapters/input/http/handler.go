package http

import (
	"errors"

	"moranda/internal/domain"
	"moranda/internal/ports/input"
	"moranda/internal/ports/output"
	"moranda/pkg/validator"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// HTTPHandler struct - Primary/Driving adapter for the admin HTTP API
type HTTPHandler struct {
	sessions  input.SessionStore
	roster    input.RosterService
	docs      output.DocumentStore
	validator validator.Validator
}

// New func - Creates new HTTP handler
func New(sessions input.SessionStore, roster input.RosterService, docs output.DocumentStore) *HTTPHandler {
	return &HTTPHandler{
		sessions:  sessions,
		roster:    roster,
		docs:      docs,
		validator: validator.New(),
	}
}

// HealthCheck func
func (hdl *HTTPHandler) HealthCheck(c *fiber.Ctx) error {
	if err := hdl.docs.Ping(c.UserContext()); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: ""})
}

// GetSession godoc
// @Summary Get aside
// @Description Get the open/closed state of an aside
// @Tags ASIDE
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /v1/api/asides/{team}/{channel}	[get]
// @Produce json
// @param team path string true "team id"
// @param channel path string true "channel id"
func (hdl *HTTPHandler) GetSession(c *fiber.Ctx) error {
	key := domain.AsideKey{Team: c.Params("team"), Channel: c.Params("channel")}
	aside, err := hdl.sessions.GetSession(c.UserContext(), key)
	if errors.Is(err, domain.ErrMissingKey) {
		return c.Status(fiber.StatusBadRequest).JSON(withMessages(BadRequest, err.Error()))
	}
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	if aside == nil {
		return c.Status(fiber.StatusNotFound).JSON(ResponseBody{Status: NotFound})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: AsideResponse{
		Team:    key.Team,
		Channel: key.Channel,
		Open:    aside.Open,
		Purpose: aside.Purpose,
		Summary: aside.Summary,
		Owner:   aside.Owner,
	}})
}

// SyncRoster godoc
// @Summary Sync roster
// @Description Reconcile stored users with a team roster
// @Tags ROSTER
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /v1/api/roster	[post]
// @Produce json
// @param SyncRoster body RosterRequest true "SyncRoster"
func (hdl *HTTPHandler) SyncRoster(c *fiber.Ctx) error {
	var request RosterRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(withMessages(BadRequest, validator.Messages(err)...))
	}
	if err := hdl.sessions.SyncRoster(c.UserContext(), request.ToDomain()); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(withMessages(InternalServerError, err.Error()))
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

// SyncRosterFromSlack godoc
// @Summary Sync roster from Slack
// @Description Fetch the team roster from Slack and reconcile stored users
// @Tags ROSTER
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /v1/api/roster/sync	[post]
// @Produce json
func (hdl *HTTPHandler) SyncRosterFromSlack(c *fiber.Ctx) error {
	if err := hdl.roster.SyncFromPlatform(c.UserContext()); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(withMessages(InternalServerError, err.Error()))
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success})
}

// ResolveMentions godoc
// @Summary Resolve mentions
// @Description Map @name mentions to user ids
// @Tags USER
// @Accept application/json
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /v1/api/mentions	[post]
// @Produce json
// @param ResolveMentions body MentionRequest true "ResolveMentions"
func (hdl *HTTPHandler) ResolveMentions(c *fiber.Ctx) error {
	var request MentionRequest
	if err := c.BodyParser(&request); err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusBadRequest).JSON(ResponseBody{Status: BadRequest})
	}
	if err := hdl.validator.ValidateStruct(request); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(withMessages(BadRequest, validator.Messages(err)...))
	}

	resolution, err := hdl.sessions.ResolveMentionedUsers(c.UserContext(), request.Team, request.User, request.Text)
	if errors.Is(err, domain.ErrNoSuchUser) {
		return c.Status(fiber.StatusNotFound).JSON(withMessages(NotFound, err.Error()))
	}
	if err != nil {
		logrus.Errorln(err)
		return c.Status(fiber.StatusInternalServerError).JSON(ResponseBody{Status: InternalServerError})
	}
	return c.Status(fiber.StatusOK).JSON(ResponseBody{Status: Success, Data: MentionResponse{
		TeamMembers: resolution.TeamMembers,
	}})
}
