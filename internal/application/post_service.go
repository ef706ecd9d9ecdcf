package application

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/sirupsen/logrus"

	"github.com/corpboard/corpboard/internal/domain/entity"
	"github.com/corpboard/corpboard/internal/domain/repository"
	"github.com/corpboard/corpboard/internal/viewguard"
	"github.com/corpboard/corpboard/pkg/apperr"
)

// PostService owns the post lifecycle behind the board permission gate.
// Elasticsearch indexing is best-effort: a failed index never fails the write.
type PostService struct {
	repos        repository.Set
	perms        *PermissionService
	guard        *viewguard.Guard
	logger       *logrus.Logger
	es           *elasticsearch.Client
	esPostsIndex string
}

func NewPostService(repos repository.Set, perms *PermissionService, guard *viewguard.Guard, logger *logrus.Logger, es *elasticsearch.Client, esPostsIndex string) *PostService {
	return &PostService{
		repos:        repos,
		perms:        perms,
		guard:        guard,
		logger:       logger,
		es:           es,
		esPostsIndex: esPostsIndex,
	}
}

// PostView is the read model handed to the HTTP layer.
type PostView struct {
	ID           int64            `json:"id"`
	BoardID      int64            `json:"board_id"`
	Title        string           `json:"title"`
	Content      string           `json:"content,omitempty"`
	AuthorID     int64            `json:"author_id"`
	AuthorName   string           `json:"author_name"`
	IsPinned     bool             `json:"is_pinned"`
	IsDeleted    bool             `json:"is_deleted"`
	ViewCount    int              `json:"view_count"`
	QnaStatus    string           `json:"qna_status,omitempty"`
	LikeCount    int              `json:"like_count"`
	CommentCount int              `json:"comment_count"`
	LikedByMe    bool             `json:"liked_by_me"`
	Attachments  []AttachmentView `json:"attachments,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}

type AttachmentView struct {
	ID           int64     `json:"id"`
	OriginalName string    `json:"original_name"`
	MimeType     string    `json:"mime_type"`
	SizeBytes    int64     `json:"size_bytes"`
	CreatedAt    time.Time `json:"created_at"`
}

type PostListInput struct {
	BoardID        int64
	Search         string
	QnaStatus      string
	SortBy         string
	SortDesc       bool
	IncludeDeleted bool
	Page           int
	PageSize       int
}

type PostListResult struct {
	Posts    []PostView `json:"posts"`
	Total    int64      `json:"total"`
	Page     int        `json:"page"`
	PageSize int        `json:"page_size"`
}

// List returns a page of posts on a board the principal can read. Pinned
// posts always sort first. include_deleted is honored only for ADMIN.
func (s *PostService) List(ctx context.Context, p *Principal, in PostListInput) (*PostListResult, error) {
	if _, err := s.perms.EnsureBoardPermission(ctx, in.BoardID, p, entity.ActionRead); err != nil {
		return nil, err
	}
	if in.QnaStatus != "" && !entity.ValidQnaStatus(in.QnaStatus) {
		return nil, apperr.BadRequest("invalid qna_status filter")
	}
	if in.Page < 1 {
		in.Page = 1
	}
	if in.PageSize < 1 || in.PageSize > 100 {
		in.PageSize = 20
	}
	f := repository.PostListFilter{
		BoardID:        in.BoardID,
		Search:         strings.TrimSpace(in.Search),
		QnaStatus:      in.QnaStatus,
		IncludeDeleted: in.IncludeDeleted && p.IsAdmin(),
		SortBy:         in.SortBy,
		SortDesc:       in.SortDesc,
		Page:           in.Page,
		PageSize:       in.PageSize,
	}
	posts, total, err := s.repos.Posts.List(ctx, f)
	if err != nil {
		return nil, err
	}
	views, err := s.buildViews(ctx, posts, p, false)
	if err != nil {
		return nil, err
	}
	return &PostListResult{Posts: views, Total: total, Page: in.Page, PageSize: in.PageSize}, nil
}

type PostInput struct {
	BoardID   int64  `json:"board_id" binding:"required"`
	Title     string `json:"title" binding:"required,max=200"`
	Content   string `json:"content" binding:"required"`
	IsPinned  bool   `json:"is_pinned"`
	QnaStatus string `json:"qna_status"`
}

// Create writes a post through the board write gate. Pinning requires admin
// privilege; qna_status applies only on qna boards, defaulting to OPEN there.
func (s *PostService) Create(ctx context.Context, p *Principal, in PostInput) (*PostView, error) {
	board, err := s.perms.EnsureBoardPermission(ctx, in.BoardID, p, entity.ActionWrite)
	if err != nil {
		return nil, err
	}
	if in.IsPinned && !p.HasAdminPrivilege() {
		return nil, apperr.Forbidden("only managers may pin posts")
	}

	qnaStatus := ""
	if board.BoardType == entity.BoardTypeQna {
		qnaStatus = in.QnaStatus
		if qnaStatus == "" {
			qnaStatus = entity.QnaStatusOpen
		}
		if !entity.ValidQnaStatus(qnaStatus) {
			return nil, apperr.BadRequest("invalid qna_status")
		}
	} else if in.QnaStatus != "" {
		return nil, apperr.BadRequest("qna_status is only valid on qna boards")
	}

	post := &entity.Post{
		BoardID:   board.ID,
		Title:     strings.TrimSpace(in.Title),
		Content:   in.Content,
		AuthorID:  p.ID,
		IsPinned:  in.IsPinned,
		QnaStatus: qnaStatus,
	}
	if post.Title == "" {
		return nil, apperr.BadRequest("title must not be empty")
	}
	if err := s.repos.Posts.Create(ctx, post); err != nil {
		return nil, err
	}
	s.indexPost(ctx, post)
	return s.view(ctx, post, p, true)
}

// Get loads a post for reading and bumps its view counter unless the viewer
// hit it within the dedupe window.
func (s *PostService) Get(ctx context.Context, p *Principal, postID int64, viewerKey string) (*PostView, error) {
	post, err := s.visiblePost(ctx, p, postID, entity.ActionRead)
	if err != nil {
		return nil, err
	}
	if s.guard == nil || s.guard.ShouldCount(viewerKey, post.ID) {
		if n, err := s.repos.Posts.IncrementViewCount(ctx, post.ID); err == nil {
			post.ViewCount = n
		}
	}
	return s.view(ctx, post, p, true)
}

type PostUpdate struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	IsPinned  *bool   `json:"is_pinned"`
	QnaStatus *string `json:"qna_status"`
}

// Update patches a post. Only the author or a manager may edit; pinning and
// qna_status transitions are manager-only.
func (s *PostService) Update(ctx context.Context, p *Principal, postID int64, in PostUpdate) (*PostView, error) {
	post, err := s.visiblePost(ctx, p, postID, entity.ActionWrite)
	if err != nil {
		return nil, err
	}
	if post.AuthorID != p.ID && !p.HasAdminPrivilege() {
		return nil, apperr.Forbidden("not the author of this post")
	}
	if in.Title != nil {
		t := strings.TrimSpace(*in.Title)
		if t == "" {
			return nil, apperr.BadRequest("title must not be empty")
		}
		post.Title = t
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.IsPinned != nil && *in.IsPinned != post.IsPinned {
		if !p.HasAdminPrivilege() {
			return nil, apperr.Forbidden("only managers may pin posts")
		}
		post.IsPinned = *in.IsPinned
	}
	if in.QnaStatus != nil {
		if post.QnaStatus == "" {
			return nil, apperr.BadRequest("qna_status is only valid on qna boards")
		}
		if !entity.ValidQnaStatus(*in.QnaStatus) {
			return nil, apperr.BadRequest("invalid qna_status")
		}
		if *in.QnaStatus != post.QnaStatus && !p.HasAdminPrivilege() {
			return nil, apperr.Forbidden("only managers may change qna_status")
		}
		post.QnaStatus = *in.QnaStatus
	}
	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return nil, err
	}
	s.indexPost(ctx, post)
	return s.view(ctx, post, p, true)
}

// Delete soft-deletes a post (author or manager).
func (s *PostService) Delete(ctx context.Context, p *Principal, postID int64) error {
	post, err := s.visiblePost(ctx, p, postID, entity.ActionWrite)
	if err != nil {
		return err
	}
	if post.AuthorID != p.ID && !p.HasAdminPrivilege() {
		return apperr.Forbidden("not the author of this post")
	}
	now := time.Now()
	post.IsDeleted = true
	post.DeletedAt = &now
	if err := s.repos.Posts.Update(ctx, post); err != nil {
		return err
	}
	s.deindexPost(ctx, post.ID)
	return nil
}

// visiblePost loads a post, hides soft-deleted ones from non-admins, and runs
// the board gate for the requested action.
func (s *PostService) visiblePost(ctx context.Context, p *Principal, postID int64, action entity.Action) (*entity.Post, error) {
	post, err := s.repos.Posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.IsDeleted && !p.IsAdmin() {
		return nil, apperr.NotFound("post %d not found", postID)
	}
	if _, err := s.perms.EnsureBoardPermission(ctx, post.BoardID, p, action); err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) view(ctx context.Context, post *entity.Post, p *Principal, withDetail bool) (*PostView, error) {
	views, err := s.buildViews(ctx, []entity.Post{*post}, p, withDetail)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// buildViews joins posts with author names, like/comment counts and the
// caller's like status. Attachments are loaded only for detail views.
func (s *PostService) buildViews(ctx context.Context, posts []entity.Post, p *Principal, withDetail bool) ([]PostView, error) {
	ids := make([]int64, 0, len(posts))
	authorIDs := make([]int64, 0, len(posts))
	seen := map[int64]bool{}
	for _, post := range posts {
		ids = append(ids, post.ID)
		if !seen[post.AuthorID] {
			seen[post.AuthorID] = true
			authorIDs = append(authorIDs, post.AuthorID)
		}
	}

	names := map[int64]string{}
	if len(authorIDs) > 0 {
		users, err := s.repos.Users.ListByIDs(ctx, authorIDs)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			names[u.ID] = u.Username
		}
	}
	likeCounts, err := s.repos.Likes.CountForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	commentCounts, err := s.repos.Comments.CountForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	liked := map[int64]bool{}
	if p != nil && len(ids) > 0 {
		liked, err = s.repos.Likes.LikedPostIDs(ctx, ids, p.ID)
		if err != nil {
			return nil, err
		}
	}

	out := make([]PostView, 0, len(posts))
	for _, post := range posts {
		v := PostView{
			ID:           post.ID,
			BoardID:      post.BoardID,
			Title:        post.Title,
			AuthorID:     post.AuthorID,
			AuthorName:   names[post.AuthorID],
			IsPinned:     post.IsPinned,
			IsDeleted:    post.IsDeleted,
			ViewCount:    post.ViewCount,
			QnaStatus:    post.QnaStatus,
			LikeCount:    likeCounts[post.ID],
			CommentCount: commentCounts[post.ID],
			LikedByMe:    liked[post.ID],
			CreatedAt:    post.CreatedAt,
			UpdatedAt:    post.UpdatedAt,
		}
		if withDetail {
			v.Content = post.Content
			atts, err := s.repos.Attachments.ListForPost(ctx, post.ID)
			if err != nil {
				return nil, err
			}
			for _, a := range atts {
				v.Attachments = append(v.Attachments, AttachmentView{
					ID:           a.ID,
					OriginalName: a.OriginalName,
					MimeType:     a.MimeType,
					SizeBytes:    a.SizeBytes,
					CreatedAt:    a.CreatedAt,
				})
			}
		}
		out = append(out, v)
	}
	return out, nil
}

func itoa64(n int64) string { return strconv.FormatInt(n, 10) }

// indexPost pushes the post to Elasticsearch. Failures are logged and ignored.
func (s *PostService) indexPost(ctx context.Context, post *entity.Post) {
	if s.es == nil || s.esPostsIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         post.ID,
		"board_id":   post.BoardID,
		"title":      post.Title,
		"content":    post.Content,
		"author_id":  post.AuthorID,
		"is_pinned":  post.IsPinned,
		"qna_status": post.QnaStatus,
		"created_at": post.CreatedAt.Format(time.RFC3339Nano),
		"updated_at": post.UpdatedAt.Format(time.RFC3339Nano),
	}
	b, _ := json.Marshal(doc)
	req := esapi.IndexRequest{Index: s.esPostsIndex, DocumentID: itoa64(post.ID), Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		s.logger.WithError(err).WithField("post_id", post.ID).Warn("es index failed")
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		s.logger.WithField("status", res.Status()).WithField("post_id", post.ID).Warn("es index response error")
	}
}

func (s *PostService) deindexPost(ctx context.Context, postID int64) {
	if s.es == nil || s.esPostsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.esPostsIndex, DocumentID: itoa64(postID)}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.es)
	if err != nil {
		s.logger.WithError(err).WithField("post_id", postID).Warn("es delete failed")
		return
	}
	_ = res.Body.Close()
}

// Search runs a multi_match query over title and content, then filters hits
// down to boards the principal can read.
func (s *PostService) Search(ctx context.Context, p *Principal, q string, size int) ([]map[string]any, error) {
	if s.es == nil || s.esPostsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"title^2", "content"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := s.es.Search(s.es.Search.WithContext(c), s.es.Search.WithIndex(s.esPostsIndex), s.es.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, err
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	readable := map[int64]bool{}
	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		bid, ok := h.Source["board_id"].(float64)
		if !ok {
			continue
		}
		boardID := int64(bid)
		allowed, cached := readable[boardID]
		if !cached {
			_, err := s.perms.EnsureBoardPermission(ctx, boardID, p, entity.ActionRead)
			allowed = err == nil
			readable[boardID] = allowed
		}
		if allowed {
			out = append(out, h.Source)
		}
	}
	return out, nil
}
