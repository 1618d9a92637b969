package api

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rally-metrics/models"
	"rally-metrics/services"
	"rally-metrics/storage"
)

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// listPlayers serves GET /api/v1/player. searchText matches name or team,
// team matches the team exactly and name matches part of the name.
func (s *Server) listPlayers(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		players []*models.PlayerStatistic
		err     error
	)
	switch {
	case c.Query("searchText") != "":
		players, err = s.store.Search(ctx, c.Query("searchText"))
	case c.Query("team") != "":
		players, err = s.store.ListByTeam(ctx, c.Query("team"))
	case c.Query("name") != "":
		players, err = s.store.SearchByName(ctx, c.Query("name"))
	default:
		players, err = s.store.List(ctx)
	}
	s.respondPlayers(c, players, err)
}

func (s *Server) searchPlayers(c *gin.Context) {
	name := c.Query("name")
	if strings.TrimSpace(name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter required"})
		return
	}
	players, err := s.store.Search(c.Request.Context(), name)
	s.respondPlayers(c, players, err)
}

// playerSummary serves the profile as plain text, or as JSON with ?format=json.
func (s *Server) playerSummary(c *gin.Context) {
	profile, err := s.profiles.Profile(c.Request.Context(), c.Param("name"))
	if errors.Is(err, storage.ErrNotFound) {
		c.String(http.StatusNotFound, "Player not found")
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}

	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, profile)
		return
	}
	c.String(http.StatusOK, profile.Summary)
}

func (s *Server) addPlayer(c *gin.Context) {
	p, ok := bindPlayer(c)
	if !ok {
		return
	}
	err := s.store.Add(c.Request.Context(), p)
	if errors.Is(err, storage.ErrExists) {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) updatePlayer(c *gin.Context) {
	p, ok := bindPlayer(c)
	if !ok {
		return
	}
	err := s.store.Update(c.Request.Context(), p)
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deletePlayer(c *gin.Context) {
	err := s.store.Delete(c.Request.Context(), c.Param("name"))
	if errors.Is(err, storage.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Player deleted successfully"})
}

// uploadCSV imports the multipart "file" field, or the configured clean CSV
// when nothing is attached.
func (s *Server) uploadCSV(c *gin.Context) {
	ctx := c.Request.Context()

	header, err := c.FormFile("file")
	if err != nil && !errors.Is(err, http.ErrMissingFile) && !errors.Is(err, http.ErrNotMultipart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var n int
	if header == nil {
		n, err = services.ImportFile(ctx, s.store, s.cleanCSV, s.format, s.logger)
		if errors.Is(err, fs.ErrNotExist) {
			c.JSON(http.StatusNotFound, gin.H{"error": "CSV file not found: " + s.cleanCSV})
			return
		}
	} else {
		f, openErr := header.Open()
		if openErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": openErr.Error()})
			return
		}
		defer f.Close()
		n, err = services.ImportReader(ctx, s.store, f, header.Filename, s.format, s.logger)
	}
	if err != nil {
		s.logger.Error("[api] CSV import failed: %v", err)
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Failed to import CSV: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "CSV import successful.", "imported": n})
}

func bindPlayer(c *gin.Context) (models.PlayerStatistic, bool) {
	var p models.PlayerStatistic
	if err := c.ShouldBindJSON(&p); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid player: " + err.Error()})
		return p, false
	}
	p.Name = strings.TrimSpace(p.Name)
	p.Team = strings.TrimSpace(p.Team)
	if p.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return p, false
	}
	if p.Rank <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rank must be a positive integer"})
		return p, false
	}
	return p, true
}

func (s *Server) respondPlayers(c *gin.Context, players []*models.PlayerStatistic, err error) {
	if err != nil {
		s.internalError(c, err)
		return
	}
	if players == nil {
		players = []*models.PlayerStatistic{}
	}
	c.JSON(http.StatusOK, players)
}

func (s *Server) internalError(c *gin.Context, err error) {
	s.logger.Error("[api] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}
