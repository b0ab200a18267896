package catalog

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/filemart/filemart-backend/pkg/logger"
)

// MaxStagedImages is the hard cap on images staged per save
const MaxStagedImages = 8

// StagedFile is one image selected in the editor but not yet uploaded
type StagedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Preview is a process-local handle for a staged image. Handles hold
// the image bytes alive for display until closed; closing is what
// releases the underlying resource.
type Preview struct {
	url  string
	data []byte
}

// URL returns the ephemeral preview address. It is only meaningful
// inside this process and must never be persisted.
func (p *Preview) URL() string {
	return p.url
}

// Close releases the preview resource. Safe to call more than once.
func (p *Preview) Close() {
	p.data = nil
}

// StagingBuffer accumulates selected images before a save. Selections
// past the cap are dropped silently, matching the editor's behavior of
// keeping the first eight.
type StagingBuffer struct {
	files    []StagedFile
	previews []*Preview
}

func NewStagingBuffer() *StagingBuffer {
	return &StagingBuffer{}
}

// AddFiles appends a selection to the buffer. When the combined total
// exceeds the cap the earliest files win and the excess is discarded
// without error.
func (b *StagingBuffer) AddFiles(files ...StagedFile) {
	room := MaxStagedImages - len(b.files)
	if room <= 0 {
		logger.Debug("Image staging buffer full, selection ignored", map[string]interface{}{
			"dropped": len(files),
		})
		return
	}

	if len(files) > room {
		logger.Debug("Image selection truncated to staging cap", map[string]interface{}{
			"selected": len(files),
			"accepted": room,
		})
		files = files[:room]
	}

	for _, f := range files {
		b.files = append(b.files, f)
		b.previews = append(b.previews, &Preview{
			url:  fmt.Sprintf("staged://%s", uuid.New().String()),
			data: f.Data,
		})
	}
}

// RemoveAt drops the staged file at the given index and releases its
// preview. Out-of-range indexes are a no-op.
func (b *StagingBuffer) RemoveAt(index int) {
	if index < 0 || index >= len(b.files) {
		return
	}
	b.previews[index].Close()
	b.files = append(b.files[:index], b.files[index+1:]...)
	b.previews = append(b.previews[:index], b.previews[index+1:]...)
}

// Files returns the staged files in selection order
func (b *StagingBuffer) Files() []StagedFile {
	return b.files
}

// Previews returns the live preview handles, index-aligned with Files
func (b *StagingBuffer) Previews() []*Preview {
	return b.previews
}

// Len reports how many files are staged
func (b *StagingBuffer) Len() int {
	return len(b.files)
}

// Release closes every preview and empties the buffer. Called when the
// editor is torn down, whether the save succeeded or was abandoned.
func (b *StagingBuffer) Release() {
	for _, p := range b.previews {
		p.Close()
	}
	b.files = nil
	b.previews = nil
}
