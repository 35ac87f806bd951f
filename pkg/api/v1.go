package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/danielgtaylor/huma/v2"
	"github.com/iziplay/gallery/pkg/comments"
	"github.com/iziplay/gallery/pkg/oid"
)

type PlainOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type StatsOutput struct {
	Body comments.Stats
}

type ListCommentsInput struct {
	OID string `query:"oid" doc:"Museum object id"`
}

type CommentList struct {
	OID      string             `json:"oid"`
	Comments []comments.Comment `json:"comments"`
}

// ListCommentsOutput carries either a JSON CommentList or no content.
type ListCommentsOutput struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type AddCommentInput struct {
	OID         string `query:"oid" doc:"Museum object id, may also be sent in the form"`
	ContentType string `header:"Content-Type"`
	RawBody     []byte
}

type AddCommentOutput struct {
	Body struct {
		ID int64 `json:"id"`
	}
}

// Handlers serves the comment API from a store.
type Handlers struct {
	Store comments.Store
	Stats *comments.StatsCache
}

func (h *Handlers) listComments(ctx context.Context, input *ListCommentsInput) (*ListCommentsOutput, error) {
	id := oid.Normalize(input.OID)
	if id == "" {
		return nil, huma.Error400BadRequest(comments.ErrInvalidObjectID.Error())
	}

	list, err := h.Store.List(ctx, id)
	if err != nil {
		slog.Error("Failed to list comments", "oid", id, "error", err)
		return nil, huma.Error500InternalServerError("failed to list comments")
	}
	if len(list) == 0 {
		return &ListCommentsOutput{Status: http.StatusNoContent}, nil
	}

	body, err := json.Marshal(CommentList{OID: id, Comments: list})
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to encode comments", err)
	}
	return &ListCommentsOutput{
		Status:      http.StatusOK,
		ContentType: "application/json",
		Body:        body,
	}, nil
}

func (h *Handlers) addComment(ctx context.Context, input *AddCommentInput) (*AddCommentOutput, error) {
	form, err := parseForm(input.ContentType, input.RawBody)
	if err != nil {
		return nil, huma.Error400BadRequest("malformed form body", err)
	}

	objectID := input.OID
	if objectID == "" {
		objectID = form.Get("oid")
	}
	id, err := comments.Validate(objectID, form.Get("name"), form.Get("comment"))
	if err != nil {
		return nil, huma.Error400BadRequest(err.Error())
	}

	rowID, err := h.Store.Add(ctx, id, form.Get("name"), form.Get("comment"))
	if err != nil {
		slog.Error("Failed to add comment", "oid", id, "error", err)
		return nil, huma.Error500InternalServerError("failed to store comment")
	}
	h.Stats.Invalidate()

	slog.Debug("Comment added", "oid", id, "id", rowID)
	resp := &AddCommentOutput{}
	resp.Body.ID = rowID
	return resp, nil
}

// maxFormMemory bounds the multipart fields kept in memory.
const maxFormMemory = 1 << 20

// parseForm reads an urlencoded or multipart form body.
func parseForm(contentType string, body []byte) (url.Values, error) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || mediaType != "multipart/form-data" {
		return url.ParseQuery(string(body))
	}

	boundary := params["boundary"]
	if boundary == "" {
		return nil, errors.New("missing multipart boundary")
	}
	mf, err := multipart.NewReader(bytes.NewReader(body), boundary).ReadForm(maxFormMemory)
	if err != nil {
		return nil, err
	}
	defer mf.RemoveAll()
	return url.Values(mf.Value), nil
}

func (h *Handlers) statistics(ctx context.Context, input *struct{}) (*StatsOutput, error) {
	stats := h.Stats.Get()
	if stats == nil {
		go h.Stats.Compute(context.Background(), false)
		return nil, huma.Error503ServiceUnavailable("stats are being computed, please retry later")
	}
	return &StatsOutput{Body: *stats}, nil
}

func Setup(api huma.API, h *Handlers) {
	huma.Register(api, huma.Operation{
		OperationID: "HealthCheck",
		Method:      http.MethodGet,
		Path:        "/healthz",
		Summary:     "Health check",
		Description: "Check if the API is running",
		Tags:        []string{"Health"},
	}, func(ctx context.Context, input *struct{}) (*PlainOutput, error) {
		return &PlainOutput{
			ContentType: "text/plain",
			Body:        []byte("OK"),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "ListComments",
		Method:      http.MethodGet,
		Path:        "/comments",
		Summary:     "List comments",
		Description: "List the comments left on a museum object, oldest first. Answers 204 when there are none.",
		Tags:        []string{"Comments"},
	}, h.listComments)

	huma.Register(api, huma.Operation{
		OperationID:   "AddComment",
		Method:        http.MethodPost,
		Path:          "/comments",
		Summary:       "Add a comment",
		Description:   "Store a comment sent as an urlencoded or multipart form with oid, name and comment fields",
		Tags:          []string{"Comments"},
		DefaultStatus: http.StatusCreated,
		Security: []map[string][]string{
			{"bearerAuth": {}},
		},
	}, h.addComment)

	huma.Register(api, huma.Operation{
		OperationID: "GetStatistics",
		Method:      http.MethodGet,
		Path:        "/v1/statistics",
		Summary:     "Get statistics",
		Description: "Get statistics about stored comments",
		Tags:        []string{"Statistics"},
	}, h.statistics)
}
