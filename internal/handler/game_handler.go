package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"gamereview/backend/internal/apperr"
	"gamereview/backend/internal/auth"
	"gamereview/backend/internal/hub"
	"gamereview/backend/internal/models"
	"gamereview/backend/internal/service"
)

// region --- DTOs ---

// ReviewInput is the body of a review submission.
type ReviewInput struct {
	Rating      *float64 `json:"rating" binding:"required" example:"4.5"`
	Subject     string   `json:"subject" example:"Fantastic"`
	Description string   `json:"description" example:"One more run, every night."`
}

// ReviewAddedPayload is broadcast to a game's event stream after a review is
// accepted.
type ReviewAddedPayload struct {
	GameID        uint          `json:"gameId"`
	AverageRating float64       `json:"averageRating"`
	ReviewCount   int           `json:"reviewCount"`
	Review        models.Review `json:"review"`
}

// endregion

// parseGameID reads the :id path parameter. An id that cannot name a game
// is reported as a missing game.
func parseGameID(c *gin.Context) (uint, error) {
	id, err := models.ParseID(c.Param("id"))
	if err != nil {
		return 0, apperr.NotFound("game not found")
	}
	return id, nil
}

// GetGames godoc
// @Summary      Get all games
// @Description  Retrieves every game with its reviews and average rating.
// @Tags         games
// @Produce      json
// @Success      200  {array}   models.Game
// @Failure      500  {object}  ErrorResponse
// @Router       /games [get]
func (h *Handler) GetGames(c *gin.Context) {
	games, err := h.reviews.ListGames(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// GetGameByID godoc
// @Summary      Get a single game by ID
// @Tags         games
// @Produce      json
// @Param        id   path      int  true  "Game ID"
// @Success      200  {object}  models.Game
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Failure      500  {object}  ErrorResponse
// @Router       /games/{id} [get]
func (h *Handler) GetGameByID(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	game, err := h.reviews.GetGame(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// AddReview godoc
// @Summary      Review a game
// @Description  Adds the caller's review to a game and returns the updated game. Each user may review a game once.
// @Tags         games
// @Accept       json
// @Produce      json
// @Security     TokenAuth
// @Param        id    path      int          true  "Game ID"
// @Param        input body      ReviewInput  true  "Review"
// @Success      201   {object}  models.Game
// @Failure      400   {object}  ErrorResponse "Invalid user or body"
// @Failure      401   {object}  ErrorResponse
// @Failure      404   {object}  ErrorResponse "Game not found"
// @Failure      409   {object}  ErrorResponse "Game already reviewed"
// @Failure      500   {object}  ErrorResponse
// @Router       /games/{id}/review [post]
func (h *Handler) AddReview(c *gin.Context) {
	var userIdentity string
	if userID, ok := auth.UserID(c); ok {
		userIdentity = models.FormatID(userID)
	}

	gameID, err := parseGameID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "rating is required"})
		return
	}

	game, err := h.reviews.AddReview(c.Request.Context(), gameID, userIdentity, service.ReviewInput{
		Rating:      *input.Rating,
		Subject:     input.Subject,
		Description: input.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.metrics.ReviewSubmitted()
	h.publishReview(game)
	c.JSON(http.StatusCreated, game)
}

func (h *Handler) publishReview(game *models.Game) {
	if h.hub == nil || len(game.Reviews) == 0 {
		return
	}
	err := h.hub.Broadcast(game.ID, hub.Event{
		Type: hub.EventReviewAdded,
		Payload: ReviewAddedPayload{
			GameID:        game.ID,
			AverageRating: game.AverageRating,
			ReviewCount:   len(game.Reviews),
			Review:        game.Reviews[len(game.Reviews)-1],
		},
	})
	if err != nil {
		h.log.Warn("broadcast review", zap.Uint("game_id", game.ID), zap.Error(err))
	}
}

// GameEvents godoc
// @Summary      Stream a game's review events
// @Description  Server-sent events; one message per accepted review until the client disconnects.
// @Tags         games
// @Produce      text/event-stream
// @Param        id   path      int  true  "Game ID"
// @Success      200  {string}  string
// @Failure      404  {object}  ErrorResponse "Game not found"
// @Router       /games/{id}/events [get]
func (h *Handler) GameEvents(c *gin.Context) {
	id, err := parseGameID(c)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if _, err := h.reviews.GetGame(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	client := make(hub.Client, 16)
	h.hub.Subscribe(id, client)
	defer h.hub.Unsubscribe(id, client)

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-client:
			if !ok {
				return
			}
			c.SSEvent("message", string(msg))
			c.Writer.Flush()
		}
	}
}
