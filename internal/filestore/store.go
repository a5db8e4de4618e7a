// Package filestore holds source file content centrally so parsing and
// feature extraction can address lines and substrings by a stable FileID
// instead of re-reading from disk or passing byte slices around.
package filestore

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/refactorlab/rfx/internal/types"

	"github.com/cespare/xxhash/v2"
)

// FileContent holds the actual content and pre-computed line information
type FileContent struct {
	FileID      types.FileID
	Content     []byte       // The actual file content
	LineOffsets []uint32     // Byte offsets for start of each line
	FastHash    uint64       // xxhash for quick equality checks (~0.5ns)
	ContentHash [32]byte     // Pre-computed SHA256 hash for cache optimization
	RefCount    atomic.Int32 // Reference counting for cleanup
}

// FileContentSnapshot represents concurrent file content data using sync.Map
// for safe concurrent read/write access without copy-on-write overhead.
type FileContentSnapshot struct {
	files       sync.Map       // map[types.FileID]*FileContent
	pathToID    sync.Map       // map[string]types.FileID
	accessOrder []types.FileID // Load order, oldest first, for eviction (protected by single-writer)
}

// UpdateType represents the type of update operation
type UpdateType int

const (
	UpdateTypeLoad UpdateType = iota
	UpdateTypeInvalidate
	UpdateTypeClear
)

// ContentUpdate represents a file content update request
type ContentUpdate struct {
	Type     UpdateType
	Path     string
	Content  []byte
	Response chan UpdateResult
}

// UpdateResult represents the result of an update operation
type UpdateResult struct {
	FileID  types.FileID
	Success bool
	Error   error
}

// FileContentStore manages all file content centrally with concurrent read/write access.
// Uses sync.Map for O(1) concurrent operations without copy-on-write overhead.
//
// ARCHITECTURE:
//   - Concurrent reads via sync.Map (no locks, no copying)
//   - Writes serialized through dedicated goroutine for consistency
//   - O(1) per-file operations (no O(n) map copying)
type FileContentStore struct {
	// Current snapshot for lock-free reads; the writer goroutine updates it in place
	snapshot atomic.Value // *FileContentSnapshot

	// Single-writer update channel
	updateChan chan *ContentUpdate
	closeChan  chan struct{}
	closeOnce  sync.Once     // Ensure Close() is only called once
	closed     atomic.Bool   // Track if store is closed
	doneChan   chan struct{} // Channel to wait for goroutine to finish

	// Memory management (atomic)
	currentMemory  atomic.Int64
	maxMemoryBytes int64

	// FileID generation (atomic)
	nextID atomic.Uint32
}

// NewFileContentStore creates a new lock-free file content store
func NewFileContentStore() *FileContentStore {
	return NewFileContentStoreWithLimit(500 * 1024 * 1024) // Default 500MB limit
}

// NewFileContentStoreWithLimit creates a new lock-free file content store with memory limit
func NewFileContentStoreWithLimit(maxMemoryBytes int64) *FileContentStore {
	store := &FileContentStore{
		updateChan:     make(chan *ContentUpdate, 100), // Buffered for performance
		closeChan:      make(chan struct{}),
		doneChan:       make(chan struct{}), // For waiting on goroutine
		maxMemoryBytes: maxMemoryBytes,
	}

	store.snapshot.Store(&FileContentSnapshot{
		accessOrder: make([]types.FileID, 0),
	})

	go store.processUpdates()

	return store
}

// Close shuts down the update processor goroutine.
// This is safe to call multiple times due to sync.Once.
func (fcs *FileContentStore) Close() {
	fcs.closeOnce.Do(func() {
		fcs.closed.Store(true)
		close(fcs.closeChan)
		<-fcs.doneChan
	})
}

// processUpdates handles all mutations in a single goroutine
func (fcs *FileContentStore) processUpdates() {
	defer close(fcs.doneChan)

	for {
		select {
		case update := <-fcs.updateChan:
			fcs.handleUpdate(update)
		case <-fcs.closeChan:
			for {
				select {
				case update := <-fcs.updateChan:
					update.Response <- UpdateResult{
						Success: false,
						Error:   errors.New("store is closing"),
					}
				default:
					return
				}
			}
		}
	}
}

// handleUpdate processes a single update request
func (fcs *FileContentStore) handleUpdate(update *ContentUpdate) {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)

	switch update.Type {
	case UpdateTypeLoad:
		newSnapshot, fileID := fcs.applyLoadUpdate(snapshot, update.Path, update.Content)
		fcs.enforceMemoryLimit(newSnapshot)
		fcs.snapshot.Store(newSnapshot)
		update.Response <- UpdateResult{FileID: fileID, Success: true}

	case UpdateTypeInvalidate:
		newSnapshot := fcs.applyInvalidateUpdate(snapshot, update.Path)
		fcs.snapshot.Store(newSnapshot)
		update.Response <- UpdateResult{Success: true}

	case UpdateTypeClear:
		newSnapshot := &FileContentSnapshot{
			accessOrder: make([]types.FileID, 0),
		}
		fcs.snapshot.Store(newSnapshot)
		fcs.currentMemory.Store(0)
		fcs.nextID.Store(0)
		update.Response <- UpdateResult{Success: true}
	}
}

// applyLoadUpdate adds/updates a file using sync.Map (O(1), no copying)
func (fcs *FileContentStore) applyLoadUpdate(snapshot *FileContentSnapshot, path string, content []byte) (*FileContentSnapshot, types.FileID) {
	fastHash := xxhash.Sum64(content)
	lineOffsets := computeLineOffsets(content)

	if idVal, exists := snapshot.pathToID.Load(path); exists {
		id := idVal.(types.FileID)
		if fcVal, ok := snapshot.files.Load(id); ok {
			fc := fcVal.(*FileContent)
			if fc.FastHash == fastHash {
				return snapshot, id
			}
		}
	}

	var fileID types.FileID
	if idVal, exists := snapshot.pathToID.Load(path); exists {
		fileID = idVal.(types.FileID)
		if fcVal, ok := snapshot.files.Load(fileID); ok {
			fc := fcVal.(*FileContent)
			oldSize := int64(len(fc.Content) + len(fc.LineOffsets)*4 + 64)
			newSize := int64(len(content) + len(lineOffsets)*4 + 64)
			fcs.currentMemory.Add(newSize - oldSize)
		}
	} else {
		fileID = types.FileID(fcs.nextID.Add(1))
		newSize := int64(len(content) + len(lineOffsets)*4 + 64)
		fcs.currentMemory.Add(newSize)
	}

	contentHash := sha256.Sum256(content)
	fc := &FileContent{
		FileID:      fileID,
		Content:     content,
		LineOffsets: lineOffsets,
		FastHash:    fastHash,
		ContentHash: contentHash,
	}
	fc.RefCount.Store(1)

	snapshot.files.Store(fileID, fc)
	snapshot.pathToID.Store(path, fileID)
	snapshot.accessOrder = append(snapshot.accessOrder, fileID)

	return snapshot, fileID
}

// applyInvalidateUpdate removes a file using sync.Map (O(1), no copying)
func (fcs *FileContentStore) applyInvalidateUpdate(snapshot *FileContentSnapshot, path string) *FileContentSnapshot {
	idVal, exists := snapshot.pathToID.Load(path)
	if !exists {
		return snapshot
	}
	id := idVal.(types.FileID)

	if fcVal, ok := snapshot.files.Load(id); ok {
		fc := fcVal.(*FileContent)
		fileSize := int64(len(fc.Content) + len(fc.LineOffsets)*4 + 64)
		fcs.currentMemory.Add(-fileSize)
	}

	snapshot.files.Delete(id)
	snapshot.pathToID.Delete(path)

	newAccessOrder := make([]types.FileID, 0, len(snapshot.accessOrder))
	for _, fileID := range snapshot.accessOrder {
		if fileID != id {
			newAccessOrder = append(newAccessOrder, fileID)
		}
	}
	snapshot.accessOrder = newAccessOrder

	return snapshot
}

// enforceMemoryLimit evicts files in load order (oldest load first) until
// memory is under the limit; reads do not affect the eviction order.
func (fcs *FileContentStore) enforceMemoryLimit(snapshot *FileContentSnapshot) *FileContentSnapshot {
	if fcs.maxMemoryBytes <= 0 {
		return snapshot
	}

	currentMemory := fcs.currentMemory.Load()
	if currentMemory <= fcs.maxMemoryBytes {
		return snapshot
	}

	evictedIDs := make(map[types.FileID]bool)
	for i := 0; i < len(snapshot.accessOrder) && currentMemory > fcs.maxMemoryBytes; i++ {
		fileID := snapshot.accessOrder[i]

		var pathToRemove string
		snapshot.pathToID.Range(func(key, value interface{}) bool {
			if value.(types.FileID) == fileID {
				pathToRemove = key.(string)
				return false
			}
			return true
		})

		if pathToRemove != "" {
			if fcVal, ok := snapshot.files.Load(fileID); ok {
				fc := fcVal.(*FileContent)
				fileSize := int64(len(fc.Content) + len(fc.LineOffsets)*4 + 64)
				currentMemory -= fileSize
				fcs.currentMemory.Add(-fileSize)
			}
			snapshot.files.Delete(fileID)
			snapshot.pathToID.Delete(pathToRemove)
			evictedIDs[fileID] = true
		}
	}

	if len(evictedIDs) > 0 {
		newAccessOrder := make([]types.FileID, 0, len(snapshot.accessOrder)-len(evictedIDs))
		for _, fileID := range snapshot.accessOrder {
			if !evictedIDs[fileID] {
				newAccessOrder = append(newAccessOrder, fileID)
			}
		}
		snapshot.accessOrder = newAccessOrder
	}

	return snapshot
}

// ==================== PUBLIC API (Lock-Free Read Operations) ====================

// GetContent returns the full content for a file (LOCK-FREE)
func (fcs *FileContentStore) GetContent(fileID types.FileID) ([]byte, bool) {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)
	if fcVal, ok := snapshot.files.Load(fileID); ok {
		return fcVal.(*FileContent).Content, true
	}
	return nil, false
}

// GetString materializes a string from a types.StringRef (LOCK-FREE)
func (fcs *FileContentStore) GetString(ref types.StringRef) (string, error) {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)
	fcVal, ok := snapshot.files.Load(ref.FileID)
	if !ok {
		return "", fmt.Errorf("StringRef with FileID %d not found", ref.FileID)
	}
	fc := fcVal.(*FileContent)

	end := ref.Offset + ref.Length
	if ref.Offset >= uint32(len(fc.Content)) || end > uint32(len(fc.Content)) {
		return "", fmt.Errorf("StringRef bounds invalid - FileID:%d Offset:%d Length:%d ContentLen:%d",
			ref.FileID, ref.Offset, ref.Length, len(fc.Content))
	}

	return string(fc.Content[ref.Offset:end]), nil
}

// GetBytes returns the byte slice for a types.StringRef (LOCK-FREE)
func (fcs *FileContentStore) GetBytes(ref types.StringRef) ([]byte, error) {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)
	fcVal, ok := snapshot.files.Load(ref.FileID)
	if !ok {
		return nil, fmt.Errorf("StringRef with FileID %d not found", ref.FileID)
	}
	fc := fcVal.(*FileContent)

	end := ref.Offset + ref.Length
	if ref.Offset >= uint32(len(fc.Content)) || end > uint32(len(fc.Content)) {
		return nil, fmt.Errorf("StringRef bounds invalid - FileID:%d Offset:%d Length:%d ContentLen:%d",
			ref.FileID, ref.Offset, ref.Length, len(fc.Content))
	}

	return fc.Content[ref.Offset:end], nil
}

// GetLine returns a types.StringRef for a specific line (LOCK-FREE)
func (fcs *FileContentStore) GetLine(fileID types.FileID, lineNum int) (types.StringRef, bool) {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)
	fcVal, ok := snapshot.files.Load(fileID)
	if !ok {
		return types.StringRef{}, false
	}
	fc := fcVal.(*FileContent)

	if lineNum < 0 || lineNum >= len(fc.LineOffsets) {
		return types.StringRef{}, false
	}

	start := fc.LineOffsets[lineNum]
	var end uint32

	if lineNum+1 < len(fc.LineOffsets) {
		end = fc.LineOffsets[lineNum+1]
		if end > start && fc.Content[end-1] == '\n' {
			end--
		}
	} else {
		end = uint32(len(fc.Content))
	}

	length := end - start
	var hash uint64
	if length > 0 {
		hash = computeHash(fc.Content[start:end])
	}

	return types.StringRef{
		FileID: fileID,
		Offset: start,
		Length: length,
		Hash:   hash,
	}, true
}

// GetLineCount returns the number of lines in a file (LOCK-FREE)
func (fcs *FileContentStore) GetLineCount(fileID types.FileID) int {
	snapshot := fcs.snapshot.Load().(*FileContentSnapshot)
	if fcVal, ok := snapshot.files.Load(fileID); ok {
		return len(fcVal.(*FileContent).LineOffsets)
	}
	return 0
}

// GetMemoryUsage returns the current memory usage (LOCK-FREE)
func (fcs *FileContentStore) GetMemoryUsage() int64 {
	return fcs.currentMemory.Load()
}

// GetLines returns types.StringRefs for a range of lines
func (fcs *FileContentStore) GetLines(fileID types.FileID, startLine, endLine int) []types.StringRef {
	var refs []types.StringRef
	for i := startLine; i < endLine; i++ {
		if ref, ok := fcs.GetLine(fileID, i); ok {
			refs = append(refs, ref)
		}
	}
	return refs
}

// GetContextLines returns types.StringRefs for lines around a given line
func (fcs *FileContentStore) GetContextLines(fileID types.FileID, lineNum, before, after int) []types.StringRef {
	start := lineNum - before
	end := lineNum + after + 1
	return fcs.GetLines(fileID, start, end)
}

// CreateStringRef creates a types.StringRef with computed hash
func (fcs *FileContentStore) CreateStringRef(fileID types.FileID, start, length uint32) types.StringRef {
	ref := types.StringRef{
		FileID: fileID,
		Offset: start,
		Length: length,
	}

	if bytes, err := fcs.GetBytes(ref); err == nil && len(bytes) > 0 {
		ref.Hash = computeHash(bytes)
	}

	return ref
}

// ==================== PUBLIC API (Write Operations via Channel) ====================

// LoadFile loads a file's content into the store and returns its ID
func (fcs *FileContentStore) LoadFile(path string, content []byte) types.FileID {
	if fcs.closed.Load() {
		return 0 // Return invalid FileID
	}

	update := &ContentUpdate{
		Type:     UpdateTypeLoad,
		Path:     path,
		Content:  content,
		Response: make(chan UpdateResult, 1),
	}

	fcs.updateChan <- update

	result := <-update.Response
	return result.FileID
}

// InvalidateFile removes a file from the store
func (fcs *FileContentStore) InvalidateFile(path string) {
	update := &ContentUpdate{
		Type:     UpdateTypeInvalidate,
		Path:     path,
		Response: make(chan UpdateResult, 1),
	}
	fcs.updateChan <- update
	<-update.Response
}

// Clear removes all files from the store
func (fcs *FileContentStore) Clear() {
	if fcs.closed.Load() {
		return
	}

	update := &ContentUpdate{
		Type:     UpdateTypeClear,
		Response: make(chan UpdateResult, 1),
	}

	fcs.updateChan <- update

	select {
	case <-update.Response:
	case <-time.After(100 * time.Millisecond):
	}
}

// ==================== HELPER FUNCTIONS ====================

// computeLineOffsets computes byte offsets for each line in the content
func computeLineOffsets(content []byte) []uint32 {
	if len(content) == 0 {
		return nil
	}

	estimatedLines := len(content)/80 + 2
	if estimatedLines > 1000 {
		estimatedLines = 1000
	}

	offsets := make([]uint32, 1, estimatedLines)
	offsets[0] = 0

	for i, b := range content {
		if b == '\n' && i+1 < len(content) {
			offsets = append(offsets, uint32(i+1))
		}
	}

	return offsets
}

// computeHash computes the FNV-1a hash for the given byte slice
func computeHash(data []byte) uint64 {
	h := fnv.New64a()
	h.Write(data)
	return h.Sum64()
}
