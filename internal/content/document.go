package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/samborkent/uuidv7"
)

// Version is the format tag written into newly created documents.
// It mirrors the block editor release the persisted shape originates from.
const Version = "2.30.8"

// DefaultWordsPerMinute is the reading speed assumed by EstimateReadingTime
// when no explicit value is given.
const DefaultWordsPerMinute = 200

// ErrMalformedDocument is returned (wrapped) when a persisted content string
// cannot be parsed into a Document. Callers must treat this as recoverable:
// show an error state, never crash the surrounding view.
var ErrMalformedDocument = errors.New("malformed content document")

type BlockType string

const (
	TypeHeader    BlockType = "header"
	TypeParagraph BlockType = "paragraph"
	TypeList      BlockType = "list"
	TypeCode      BlockType = "code"
	TypeImage     BlockType = "image"
	TypeQuote     BlockType = "quote"
	TypeDelimiter BlockType = "delimiter"
	TypeWarning   BlockType = "warning"
	TypeTable     BlockType = "table"
)

// Document is the persisted representation of an article body: an ordered
// sequence of typed blocks. Block order is document reading order.
//
// A Document value is treated as immutable; the mutating operations
// (AppendBlock, InsertImageBlock, ...) return a new Document and leave the
// receiver untouched.
type Document struct {
	Time    int64   `json:"time"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version"`
}

// Block is a tagged variant. Exactly one of the payload pointers matching
// Type is non-nil; for unrecognized types (and for known types whose data
// could not be decoded) the payload pointers are nil and Raw carries the
// original data for round-trip passthrough.
type Block struct {
	ID   string
	Type BlockType

	Header    *HeaderData
	Paragraph *ParagraphData
	List      *ListData
	Code      *CodeData
	Image     *ImageData
	Quote     *QuoteData
	Warning   *WarningData
	Table     *TableData

	Raw json.RawMessage
}

type HeaderData struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
}

type ParagraphData struct {
	// Text may embed inline markup produced by the editor's inline toolbar.
	Text string `json:"text"`
}

type ListData struct {
	Style string     `json:"style"`
	Items []ListItem `json:"items"`
}

// ListItem accepts both the legacy plain-string item shape and the newer
// object shape {"content": "..."} the editor emits.
type ListItem struct {
	Content string
}

func (i *ListItem) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		i.Content = s
		return nil
	}

	var obj struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return err
	}
	i.Content = obj.Content
	return nil
}

func (i ListItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.Content)
}

type CodeData struct {
	Code     string `json:"code"`
	Language string `json:"language,omitempty"`
}

// ImageData stores an opaque reference to an externally hosted asset. The
// editor's upload tool writes the flat "url" field; older persisted content
// may carry the nested {"file": {"url": ...}} shape instead.
type ImageData struct {
	URL     string     `json:"url,omitempty"`
	Caption string     `json:"caption,omitempty"`
	File    *ImageFile `json:"file,omitempty"`
}

type ImageFile struct {
	URL string `json:"url"`
}

// EffectiveURL resolves the asset reference regardless of which of the two
// persisted shapes carries it.
func (d ImageData) EffectiveURL() string {
	if d.File != nil && len(d.File.URL) > 0 {
		return d.File.URL
	}
	return d.URL
}

type QuoteData struct {
	Text    string `json:"text"`
	Caption string `json:"caption,omitempty"`
}

type WarningData struct {
	Title   string `json:"title"`
	Message string `json:"message"`
}

type TableData struct {
	// Content is row-major cell text. Row 0 is conventionally presented as a
	// header row; that is presentation only, not data semantics.
	Content [][]string `json:"content"`
}

// wireBlock is the {id, type, data} envelope of the persisted format.
type wireBlock struct {
	ID   string          `json:"id,omitempty"`
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// UnmarshalJSON decodes the wire envelope and then the variant payload
// selected by the type tag. A payload that fails to decode does not fail the
// whole document: the block is kept as passthrough so the renderer can show a
// placeholder and the query operations treat it as "nothing found".
func (b *Block) UnmarshalJSON(data []byte) error {
	var w wireBlock
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	b.ID = w.ID
	b.Type = w.Type
	b.Raw = w.Data

	var err error
	switch w.Type {
	case TypeHeader:
		err = decodePayload(w.Data, &b.Header)
	case TypeParagraph:
		err = decodePayload(w.Data, &b.Paragraph)
	case TypeList:
		err = decodePayload(w.Data, &b.List)
	case TypeCode:
		err = decodePayload(w.Data, &b.Code)
	case TypeImage:
		err = decodePayload(w.Data, &b.Image)
	case TypeQuote:
		err = decodePayload(w.Data, &b.Quote)
	case TypeWarning:
		err = decodePayload(w.Data, &b.Warning)
	case TypeTable:
		err = decodePayload(w.Data, &b.Table)
	case TypeDelimiter:
		// no payload
	default:
		// unknown type, keep Raw only
	}
	if err != nil {
		// degrade to passthrough instead of failing the document
		b.clearPayloads()
	}

	return nil
}

func decodePayload[T any](data json.RawMessage, out **T) error {
	if len(data) == 0 {
		*out = new(T)
		return nil
	}

	v := new(T)
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	*out = v
	return nil
}

func (b *Block) clearPayloads() {
	b.Header = nil
	b.Paragraph = nil
	b.List = nil
	b.Code = nil
	b.Image = nil
	b.Quote = nil
	b.Warning = nil
	b.Table = nil
}

func (b Block) MarshalJSON() ([]byte, error) {
	w := wireBlock{ID: b.ID, Type: b.Type}

	var payload any
	switch {
	case b.Header != nil:
		payload = b.Header
	case b.Paragraph != nil:
		payload = b.Paragraph
	case b.List != nil:
		payload = b.List
	case b.Code != nil:
		payload = b.Code
	case b.Image != nil:
		payload = b.Image
	case b.Quote != nil:
		payload = b.Quote
	case b.Warning != nil:
		payload = b.Warning
	case b.Table != nil:
		payload = b.Table
	}

	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		w.Data = data
	} else if len(b.Raw) > 0 {
		// passthrough for unknown block types
		w.Data = b.Raw
	} else {
		w.Data = json.RawMessage(`{}`)
	}

	return json.Marshal(w)
}

// New creates an empty Document, the state an authoring session starts from
// for a new article.
func New() Document {
	return Document{
		Time:    time.Now().UnixMilli(),
		Blocks:  []Block{},
		Version: Version,
	}
}

// Parse deserializes a persisted content string. It returns an error wrapping
// ErrMalformedDocument if the input is not the expected structural shape.
func Parse(raw string) (Document, error) {
	if len(strings.TrimSpace(raw)) == 0 {
		return Document{}, fmt.Errorf("%w: empty input", ErrMalformedDocument)
	}

	var doc Document
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return Document{}, fmt.Errorf("%w: %s", ErrMalformedDocument, err.Error())
	}

	if doc.Blocks == nil {
		return Document{}, fmt.Errorf("%w: missing blocks", ErrMalformedDocument)
	}

	return doc, nil
}

// Marshal serializes the document back into the persisted wire format.
func (d Document) Marshal() (string, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// IsEmpty reports whether the document has no blocks. An empty document fails
// submission validation but may still be stored as part of a draft article.
func (d Document) IsEmpty() bool {
	return len(d.Blocks) == 0
}

// FirstImageURL scans blocks in order and returns the URL of the first image
// block, or "" if the document contains none. Malformed image data counts as
// "not found", never as an error.
func (d Document) FirstImageURL() string {
	for _, b := range d.Blocks {
		if b.Type != TypeImage || b.Image == nil {
			continue
		}
		if url := b.Image.EffectiveURL(); len(url) > 0 {
			return url
		}
	}
	return ""
}

// AppendBlock returns a new document with the block appended. Prior blocks
// keep their identity and order. A missing block id is filled in.
func (d Document) AppendBlock(b Block) Document {
	return d.InsertBlockAt(len(d.Blocks), b)
}

// InsertBlockAt returns a new document with the block spliced in at index i.
// An out-of-range index is clamped to the valid range.
func (d Document) InsertBlockAt(i int, b Block) Document {
	if len(b.ID) == 0 {
		b.ID = uuidv7.New().String()
	}
	if i < 0 {
		i = 0
	}
	if i > len(d.Blocks) {
		i = len(d.Blocks)
	}

	blocks := make([]Block, 0, len(d.Blocks)+1)
	blocks = append(blocks, d.Blocks[:i]...)
	blocks = append(blocks, b)
	blocks = append(blocks, d.Blocks[i:]...)

	out := d
	out.Blocks = blocks
	return out
}

// InsertImageBlock appends an image block referencing the given asset URL.
// It is used identically whether the URL came from a fresh upload or from a
// gallery pick.
func (d Document) InsertImageBlock(url, caption string) Document {
	return d.AppendBlock(NewImageBlock(url, caption))
}

func NewImageBlock(url, caption string) Block {
	return Block{
		Type:  TypeImage,
		Image: &ImageData{URL: url, Caption: caption},
	}
}

func NewParagraphBlock(text string) Block {
	return Block{
		Type:      TypeParagraph,
		Paragraph: &ParagraphData{Text: text},
	}
}

func NewHeaderBlock(text string, level int) Block {
	return Block{
		Type:   TypeHeader,
		Header: &HeaderData{Text: text, Level: level},
	}
}

var inlineMarkup = regexp.MustCompile(`<[^>]*>`)

// EstimateReadingTime counts whitespace-delimited words across all textual
// block content and divides by wordsPerMinute, rounding up. The result never
// drops below 1 minute. Pass wordsPerMinute <= 0 to use the default.
func (d Document) EstimateReadingTime(wordsPerMinute int) int {
	var words int
	for _, b := range d.Blocks {
		words += len(strings.Fields(b.plainText()))
	}
	return minutesFor(words, wordsPerMinute)
}

// ReadingTime estimates reading minutes for raw text with the same contract
// as Document.EstimateReadingTime.
func ReadingTime(text string, wordsPerMinute int) int {
	return minutesFor(len(strings.Fields(text)), wordsPerMinute)
}

func minutesFor(words, wordsPerMinute int) int {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultWordsPerMinute
	}

	minutes := int(math.Ceil(float64(words) / float64(wordsPerMinute)))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// plainText extracts the human-readable text of a block with inline markup
// stripped, for word counting.
func (b Block) plainText() string {
	var parts []string
	switch {
	case b.Header != nil:
		parts = append(parts, b.Header.Text)
	case b.Paragraph != nil:
		parts = append(parts, b.Paragraph.Text)
	case b.List != nil:
		for _, item := range b.List.Items {
			parts = append(parts, item.Content)
		}
	case b.Code != nil:
		parts = append(parts, b.Code.Code)
	case b.Quote != nil:
		parts = append(parts, b.Quote.Text, b.Quote.Caption)
	case b.Warning != nil:
		parts = append(parts, b.Warning.Title, b.Warning.Message)
	case b.Table != nil:
		for _, row := range b.Table.Content {
			parts = append(parts, row...)
		}
	}

	return inlineMarkup.ReplaceAllString(strings.Join(parts, " "), " ")
}
