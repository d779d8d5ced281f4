package authoring

import (
	"context"
	"strings"
	"sync"

	"keynotes-cms/internal/assets"
	"keynotes-cms/internal/content"
	"keynotes-cms/internal/environment"
	"keynotes-cms/internal/logging"

	"github.com/go-playground/validator/v10"
)

// State is the lifecycle phase of an editing session.
type State int

const (
	// StateEmpty is a fresh session with no blocks and no filled fields.
	StateEmpty State = iota
	// StateEditing means at least one field or block has been touched.
	StateEditing
	// StateSubmitting means a save is in flight. Edits stay possible,
	// a second submit does not.
	StateSubmitting
	// StateSubmitted is terminal for the session.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateEditing:
		return "editing"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Fields holds the non-content article fields edited alongside the document.
type Fields struct {
	Title      string   `validate:"required"`
	Excerpt    string   `validate:"required"`
	CategoryID uint     `validate:"required"`
	Featured   bool     `validate:"-"`
	Published  bool     `validate:"-"`
	Tags       []string `validate:"-"`
}

// SubmitPayload is what a session hands to the persistence collaborator on
// save. Thumbnail and ReadTime are derived from the document, Content is the
// serialized document itself.
type SubmitPayload struct {
	ArticleID  uint // zero means create, non-zero means update
	Title      string
	Excerpt    string
	CategoryID uint
	Featured   bool
	Published  bool
	Tags       []string
	Content    string
	Thumbnail  string
	ReadTime   int
}

// Persister stores the finished draft. Failures surface as a top-level
// banner, the draft itself is never discarded on failure.
type Persister interface {
	SaveArticle(ctx context.Context, payload SubmitPayload) error
}

// Session is a stateful editing surface wrapping a document draft. The draft
// is owned exclusively by its session; all mutations go through the session's
// methods and are serialized by its mutex.
type Session struct {
	*environment.Env
	Uploader  assets.Uploader
	Gallery   assets.Gallery
	Persister Persister

	mu        sync.Mutex
	state     State
	fields    Fields
	doc       content.Document
	cursor    int
	articleID uint
	disposed  bool

	validate *validator.Validate
}

// NewSession starts an empty authoring session for a new article.
func NewSession(env *environment.Env, uploader assets.Uploader, gallery assets.Gallery, persister Persister) *Session {
	return &Session{
		Env:       env,
		Uploader:  uploader,
		Gallery:   gallery,
		Persister: persister,
		state:     StateEmpty,
		doc:       content.New(),
		cursor:    -1,
		validate:  validator.New(),
	}
}

// NewEditSession starts a session over an already persisted article. The raw
// content is deserialized before editing; a malformed document is surfaced to
// the caller instead of opening a broken editor. Absent content opens an
// empty draft, which then fails the submission gate rather than the parse.
func NewEditSession(env *environment.Env, uploader assets.Uploader, gallery assets.Gallery, persister Persister, articleID uint, fields Fields, rawContent string) (*Session, error) {
	doc := content.New()
	if len(rawContent) > 0 {
		parsed, err := content.Parse(rawContent)
		if err != nil {
			return nil, err
		}
		doc = parsed
	}

	s := NewSession(env, uploader, gallery, persister)
	s.articleID = articleID
	s.fields = fields
	s.doc = doc
	s.state = StateEditing
	return s, nil
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Document returns a snapshot of the current draft.
func (s *Session) Document() content.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc
}

// Fields returns a snapshot of the non-content fields.
func (s *Session) Fields() Fields {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fields
}

// SetFields replaces the non-content fields and marks the session as touched.
func (s *Session) SetFields(f Fields) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}

	s.fields = f
	s.touchLocked()
	return nil
}

// SetCursor moves the edit position. Image insertions land after the cursor;
// a negative cursor means append at the end.
func (s *Session) SetCursor(position int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cursor = position
}

// Cursor returns the current edit position.
func (s *Session) Cursor() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// AppendBlock adds a block at the end of the draft.
func (s *Session) AppendBlock(b content.Block) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		return ErrSessionDisposed
	}

	s.doc = s.doc.AppendBlock(b)
	s.cursor = len(s.doc.Blocks) - 1
	s.touchLocked()
	return nil
}

// UploadAndInsertImage runs the direct upload path: validate the file before
// any network call, push it to the asset store, then insert an image block at
// the cursor. A failed upload never leaves a partially inserted block.
func (s *Session) UploadAndInsertImage(ctx context.Context, data []byte, filename, mimeType, caption string) error {
	if err := assets.ValidateImage(mimeType, int64(len(data))); err != nil {
		s.LogError(logging.GetLogTypeAuthoring(), err)
		return err
	}

	if s.isDisposed() {
		return ErrSessionDisposed
	}

	// network call outside the lock, edits stay possible while uploading
	url, err := s.Uploader.UploadImage(ctx, data, filename, mimeType)
	if err != nil {
		s.LogError(logging.GetLogTypeAuthoring(), err)
		return err
	}

	return s.insertImage(url, caption)
}

// OpenGallery fetches the asset list for the gallery browser. A failure is
// non-fatal: the caller renders an empty state with a retry action.
func (s *Session) OpenGallery(ctx context.Context, maxResults int) ([]assets.Reference, error) {
	references, err := s.Gallery.ListImages(ctx, maxResults)
	if err != nil {
		s.LogError(logging.GetLogTypeAuthoring(), err)
		return nil, err
	}
	return references, nil
}

// InsertGalleryImage runs the gallery path: the picked reference's secure URL
// (falling back to the canonical one) is inserted exactly like an uploaded
// image would be.
func (s *Session) InsertGalleryImage(reference assets.Reference, caption string) error {
	return s.insertImage(reference.EmbedURL(), caption)
}

// insertImage is the convergent effect of both image paths. The new block
// lands after the cursor, or at the end when no cursor is set, and the cursor
// moves onto it so typing can continue right after the image.
func (s *Session) insertImage(url, caption string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		// the session was torn down while the upload resolved, discard
		return ErrSessionDisposed
	}

	if s.cursor < 0 || s.cursor >= len(s.doc.Blocks) {
		s.doc = s.doc.InsertImageBlock(url, caption)
		s.cursor = len(s.doc.Blocks) - 1
	} else {
		s.doc = s.doc.InsertBlockAt(s.cursor+1, content.NewImageBlock(url, caption))
		s.cursor++
	}

	s.touchLocked()
	return nil
}

// Validate checks the submission gate: required fields plus a non-empty
// document. It returns one message per invalid field, keyed by field name.
func (s *Session) Validate() ValidationErrors {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.validateLocked()
}

func (s *Session) validateLocked() ValidationErrors {
	fieldErrors := make(ValidationErrors)

	if err := s.validate.Struct(s.fields); err != nil {
		if invalid, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range invalid {
				fieldErrors[fieldKey(fe.Field())] = fieldMessage(fe.Field())
			}
		}
	}

	if s.doc.IsEmpty() {
		fieldErrors["content"] = "Content is required"
	}

	if len(fieldErrors) == 0 {
		return nil
	}
	return fieldErrors
}

func fieldKey(structField string) string {
	switch structField {
	case "CategoryID":
		return "categoryId"
	default:
		return strings.ToLower(structField[:1]) + structField[1:]
	}
}

func fieldMessage(structField string) string {
	switch structField {
	case "Title":
		return "Title is required"
	case "Excerpt":
		return "Excerpt is required"
	case "CategoryID":
		return "Category is required"
	default:
		return structField + " is required"
	}
}

// Submit validates the draft and hands it to the persistence collaborator.
// At most one submit may be in flight; a second attempt while one is pending
// returns ErrSubmitInFlight. On failure the session drops back to editing
// with all input preserved.
func (s *Session) Submit(ctx context.Context) error {
	s.mu.Lock()

	if s.disposed {
		s.mu.Unlock()
		return ErrSessionDisposed
	}
	if s.state == StateSubmitted {
		s.mu.Unlock()
		return ErrSessionSubmitted
	}
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return ErrSubmitInFlight
	}

	if fieldErrors := s.validateLocked(); fieldErrors != nil {
		s.mu.Unlock()
		s.LogDebugf(logging.GetLogTypeAuthoring(), "submission blocked by validation: %s", fieldErrors)
		return fieldErrors
	}

	serialized, err := s.doc.Marshal()
	if err != nil {
		s.mu.Unlock()
		return &SubmissionError{Message: "failed to serialize document", Cause: err}
	}

	payload := SubmitPayload{
		ArticleID:  s.articleID,
		Title:      s.fields.Title,
		Excerpt:    s.fields.Excerpt,
		CategoryID: s.fields.CategoryID,
		Featured:   s.fields.Featured,
		Published:  s.fields.Published,
		Tags:       s.fields.Tags,
		Content:    serialized,
		Thumbnail:  s.doc.FirstImageURL(),
		ReadTime:   s.doc.EstimateReadingTime(0),
	}

	s.state = StateSubmitting
	s.mu.Unlock()

	// network call outside the lock, concurrent edits stay possible
	saveErr := s.Persister.SaveArticle(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.disposed {
		// resolved after teardown, the result can no longer be applied
		return ErrSessionDisposed
	}

	if saveErr != nil {
		s.state = StateEditing
		s.LogError(logging.GetLogTypeAuthoring(), saveErr)
		return &SubmissionError{Message: "failed to save article", Cause: saveErr}
	}

	s.state = StateSubmitted
	s.LogInfof(logging.GetLogTypeAuthoring(), "article %q submitted with %d blocks", payload.Title, len(s.doc.Blocks))
	return nil
}

// Dispose tears the session down. In-flight operations are allowed to
// resolve but their results are discarded.
func (s *Session) Dispose() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disposed = true
}

func (s *Session) isDisposed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.disposed
}

func (s *Session) touchLocked() {
	if s.state == StateEmpty {
		s.state = StateEditing
	}
}
