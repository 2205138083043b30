package web

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/musicdl/musicdl/internal/model"
)

// FileInfo is one entry of the file listing.
type FileInfo struct {
	Name   string `json:"name"`
	Size   int64  `json:"size"`
	URL    string `json:"url"`
	Locked bool   `json:"locked"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleDownload(c *gin.Context) {
	link := strings.TrimSpace(c.PostForm("link"))
	if link == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "link is required"})
		return
	}

	format, mode, err := parseFormat(c.PostForm("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batch := true
	if v := c.PostForm("batch"); v != "" {
		batch, err = strconv.ParseBool(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "batch must be true or false"})
			return
		}
	}

	id := s.tasks.Create(mode.OutputFormat(format).String())
	s.start(id, link, mode, format, batch)

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":    id,
		"status_url": "/progress/" + id + "/status",
	})
}

func (s *Server) handleProgress(c *gin.Context) {
	p, ok := s.tasks.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"status": StatusUnknown})
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) handleListFiles(c *gin.Context) {
	entries, err := os.ReadDir(s.dir)
	if err != nil && !os.IsNotExist(err) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	files := []FileInfo{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || !servable(entry.Name()) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Name:   entry.Name(),
			Size:   info.Size(),
			URL:    fileURL(entry.Name()),
			Locked: s.reservations.Reserved(filepath.Join(s.dir, entry.Name())),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	c.JSON(http.StatusOK, gin.H{"files": files})
}

func (s *Server) handleServeFile(c *gin.Context) {
	name := c.Param("name")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	path := filepath.Join(s.dir, name)
	if s.reservations.Reserved(path) {
		c.JSON(http.StatusLocked, gin.H{"status": "locked"})
		return
	}

	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		c.JSON(http.StatusNotFound, gin.H{"error": "file not found"})
		return
	}

	c.FileAttachment(path, name)
}

// servable reports whether name has the extension of a produced file.
func servable(name string) bool {
	if strings.HasPrefix(name, ".") {
		return false
	}
	_, err := model.ParseFormat(filepath.Ext(name))
	return err == nil
}
