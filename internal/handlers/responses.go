package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"socialnet/internal/models"
	"socialnet/internal/pagination"
)

type userResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Surname   string    `json:"surname"`
	Nick      string    `json:"nick"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

func newUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Nick:      u.Nick,
		Email:     u.Email,
		Role:      string(u.Role),
		Image:     u.Image,
		CreatedAt: u.CreatedAt,
	}
}

type summaryResponse struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Surname string  `json:"surname"`
	Nick    string  `json:"nick"`
	Image   *string `json:"image"`
}

func newSummary(s models.UserSummary) summaryResponse {
	return summaryResponse{ID: s.ID, Name: s.Name, Surname: s.Surname, Nick: s.Nick, Image: s.Image}
}

type followResponse struct {
	ID        string          `json:"id"`
	User      summaryResponse `json:"user"`
	Followed  summaryResponse `json:"followed"`
	CreatedAt time.Time       `json:"created_at"`
}

func newFollowResponse(f models.FollowView) followResponse {
	return followResponse{
		ID:        f.ID,
		User:      newSummary(f.User),
		Followed:  newSummary(f.Followed),
		CreatedAt: f.CreatedAt,
	}
}

type publicationResponse struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	User      *summaryResponse `json:"user,omitempty"`
	Text      string           `json:"text"`
	File      *string          `json:"file"`
	CreatedAt time.Time        `json:"created_at"`
}

func newPublicationResponse(p models.Publication) publicationResponse {
	return publicationResponse{
		ID:        p.ID,
		UserID:    p.UserID,
		Text:      p.Text,
		File:      p.File,
		CreatedAt: p.CreatedAt,
	}
}

func newPublicationView(v models.PublicationView) publicationResponse {
	resp := newPublicationResponse(v.Publication)
	author := newSummary(v.Author)
	resp.User = &author
	return resp
}

type messageResponse struct {
	ID         string           `json:"id"`
	Emitter    *summaryResponse `json:"emitter,omitempty"`
	Receiver   *summaryResponse `json:"receiver,omitempty"`
	EmitterID  string           `json:"emitter_id"`
	ReceiverID string           `json:"receiver_id"`
	Text       string           `json:"text"`
	Viewed     bool             `json:"viewed"`
	CreatedAt  time.Time        `json:"created_at"`
}

func newMessageResponse(m models.Message) messageResponse {
	return messageResponse{
		ID:         m.ID,
		EmitterID:  m.EmitterID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		Viewed:     m.Viewed,
		CreatedAt:  m.CreatedAt,
	}
}

func newMessageView(v models.MessageView) messageResponse {
	resp := newMessageResponse(v.Message)
	emitter, receiver := newSummary(v.Emitter), newSummary(v.Receiver)
	resp.Emitter = &emitter
	resp.Receiver = &receiver
	return resp
}

func mapSlice[T, R any](items []T, convert func(T) R) []R {
	out := make([]R, 0, len(items))
	for _, item := range items {
		out = append(out, convert(item))
	}
	return out
}

// writePage answers a paginated listing. An empty page is a 404 carrying the
// total so clients can tell "past the end" from "nothing at all".
func writePage[T, R any](c *gin.Context, result pagination.Result[T], key, emptyMessage string, convert func(T) R, extra gin.H) {
	if result.Empty() {
		c.JSON(http.StatusNotFound, gin.H{"message": emptyMessage, "total": result.Total})
		return
	}

	body := gin.H{
		key:              mapSlice(result.Items, convert),
		"total":          result.Total,
		"pages":          result.Pages,
		"page":           result.Page,
		"items_per_page": result.PerPage,
	}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}
