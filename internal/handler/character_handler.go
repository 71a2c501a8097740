package handler

import (
	"net/http"

	"guessgame-server/internal/models"
	"guessgame-server/internal/service"

	"github.com/gin-gonic/gin"
)

// CharacterHandler exposes the character catalog.
type CharacterHandler struct {
	characterService service.CharacterService
	authService      service.AuthService
}

func NewCharacterHandler(characterService service.CharacterService, authService service.AuthService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		authService:      authService,
	}
}

func (h *CharacterHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/api/characters", h.listActive)

	adminGroup := router.Group("/api/admin")
	adminGroup.Use(AuthMiddleware(h.authService), RequireRole(models.RoleAdmin))
	{
		adminGroup.GET("/characters", h.listAll)
	}
}

// listActive returns the public view of the playable roster, limited to
// names and source works.
func (h *CharacterHandler) listActive(c *gin.Context) {
	characters, err := h.characterService.ListActive(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}

	type publicCharacter struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Anime string `json:"anime"`
	}
	out := make([]publicCharacter, 0, len(characters))
	for _, character := range characters {
		out = append(out, publicCharacter{
			ID:    character.ID.String(),
			Name:  character.Name,
			Anime: character.Anime,
		})
	}

	c.JSON(http.StatusOK, out)
}

func (h *CharacterHandler) listAll(c *gin.Context) {
	characters, err := h.characterService.ListAll(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, characters)
}
