package badges

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"badgehub/internal/models"
	"badgehub/internal/response"
	"badgehub/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const (
	maxBodyBytes     = 1 << 20
	msgConnectWallet = "Connect your Universal Profile or Web3 wallet to create badges"
)

// BadgeController handles badge registry endpoints.
type BadgeController struct {
	badges          services.BadgeService
	wallet          services.WalletService
	media           services.MediaService
	logger          *zap.Logger
	responseBuilder *response.Builder
}

// NewBadgeController creates a badge controller. The wallet session supplies
// the creator of new badges; media supplies placeholder artwork.
func NewBadgeController(
	badges services.BadgeService,
	wallet services.WalletService,
	media services.MediaService,
	logger *zap.Logger,
	responseBuilder *response.Builder,
) *BadgeController {
	return &BadgeController{
		badges:          badges,
		wallet:          wallet,
		media:           media,
		logger:          logger,
		responseBuilder: responseBuilder,
	}
}

// ListBadges handles GET /api/v1/badges
//
// @Summary List badges
// @Description Returns registry badges, newest first, optionally filtered
// @Tags Badges
// @Produce json
// @Param search query string false "Case-insensitive match on name or description"
// @Param category query string false "Category or All"
// @Param rarity query string false "Rarity or All"
// @Success 200 {object} response.APIResponse{data=[]models.Badge}
// @Router /badges [get]
func (c *BadgeController) ListBadges(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := services.BadgeFilter{
		Search:   q.Get("search"),
		Category: q.Get("category"),
		Rarity:   q.Get("rarity"),
	}

	badges, err := c.badges.ListBadges(r.Context(), filter)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, badges, len(badges))
}

// GetBadge handles GET /api/v1/badges/{id}
//
// @Summary Get a badge
// @Tags Badges
// @Produce json
// @Param id path string true "Badge id"
// @Success 200 {object} response.APIResponse{data=models.Badge}
// @Failure 404 {object} response.APIResponse
// @Router /badges/{id} [get]
func (c *BadgeController) GetBadge(w http.ResponseWriter, r *http.Request) {
	badge, err := c.badges.GetBadge(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// CreateBadge handles POST /api/v1/badges
//
// @Summary Create a badge
// @Description Registers a badge created by the connected wallet account
// @Tags Badges
// @Accept json
// @Produce json
// @Param form body models.BadgeCreationForm true "Badge details"
// @Success 201 {object} response.APIResponse{data=models.Badge}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /badges [post]
func (c *BadgeController) CreateBadge(w http.ResponseWriter, r *http.Request) {
	session := c.wallet.State()
	if !session.IsConnected || session.Account == nil {
		c.responseBuilder.WriteError(w, r, services.NewUnauthorizedError(msgConnectWallet))
		return
	}

	var form models.BadgeCreationForm
	if err := decodeJSON(w, r, &form); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	if form.Image == "" && c.media != nil {
		form.Image = c.media.PlaceholderImage()
	}

	badge, err := c.badges.CreateBadge(r.Context(), &form, *session.Account)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	c.logger.Info("Badge created via API",
		zap.String("badge_id", badge.ID),
		zap.String("creator", badge.Creator),
	)
	c.responseBuilder.WriteCreated(w, r, badge)
}

// AwardBadge handles POST /api/v1/badges/{id}/award
//
// @Summary Award a badge
// @Description Adds one recipient to the badge
// @Tags Badges
// @Accept json
// @Produce json
// @Param id path string true "Badge id"
// @Param award body models.AwardRequest true "Recipient"
// @Success 200 {object} response.APIResponse{data=models.Badge}
// @Failure 400 {object} response.APIResponse
// @Failure 502 {object} response.APIResponse
// @Router /badges/{id}/award [post]
func (c *BadgeController) AwardBadge(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req models.AwardRequest
	if err := decodeJSON(w, r, &req); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	if err := c.badges.AwardBadge(r.Context(), id, req.Recipient); err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}

	// Unknown ids succeed without effect unless the registry is strict.
	badge, err := c.badges.GetBadge(r.Context(), id)
	if services.IsNotFoundError(err) {
		c.responseBuilder.WriteSuccess(w, r, map[string]interface{}{"badge_id": id, "found": false})
		return
	}
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, badge)
}

// GetCreatorBadges handles GET /api/v1/creators/{address}/badges
//
// @Summary Badges by creator
// @Description Case-insensitive match on the creator address
// @Tags Badges
// @Produce json
// @Param address path string true "Creator address"
// @Success 200 {object} response.APIResponse{data=[]models.Badge}
// @Router /creators/{address}/badges [get]
func (c *BadgeController) GetCreatorBadges(w http.ResponseWriter, r *http.Request) {
	badges, err := c.badges.GetBadgesByCreator(r.Context(), mux.Vars(r)["address"])
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteList(w, r, badges, len(badges))
}

// GetRegistry handles GET /api/v1/registry
//
// @Summary Registry state
// @Description Badges plus loading and last-error flags
// @Tags Badges
// @Produce json
// @Success 200 {object} response.APIResponse{data=models.RegistryState}
// @Router /registry [get]
func (c *BadgeController) GetRegistry(w http.ResponseWriter, r *http.Request) {
	state, err := c.badges.State(r.Context())
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, state)
}

// GetDashboard handles GET /api/v1/dashboard
//
// @Summary Creator dashboard
// @Description Statistics for address, defaulting to the connected account
// @Tags Badges
// @Produce json
// @Param address query string false "Creator address"
// @Success 200 {object} response.APIResponse{data=models.CreatorDashboard}
// @Router /dashboard [get]
func (c *BadgeController) GetDashboard(w http.ResponseWriter, r *http.Request) {
	address := r.URL.Query().Get("address")
	if address == "" {
		if account := c.wallet.State().Account; account != nil {
			address = *account
		}
	}

	dash, err := c.badges.GetDashboard(r.Context(), address)
	if err != nil {
		c.responseBuilder.WriteError(w, r, err)
		return
	}
	c.responseBuilder.WriteSuccess(w, r, dash)
}

// GetCategories handles GET /api/v1/meta/categories
//
// @Summary Badge categories
// @Tags Meta
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]string}
// @Router /meta/categories [get]
func (c *BadgeController) GetCategories(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteList(w, r, models.BadgeCategories, len(models.BadgeCategories))
}

// GetRarities handles GET /api/v1/meta/rarities
//
// @Summary Rarity tiers
// @Description Ordered from least to most prestigious
// @Tags Meta
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]string}
// @Router /meta/rarities [get]
func (c *BadgeController) GetRarities(w http.ResponseWriter, r *http.Request) {
	c.responseBuilder.WriteList(w, r, models.Rarities, len(models.Rarities))
}

// decodeJSON reads a single JSON object, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return services.NewValidationError("request body is required", err)
		case errors.As(err, &maxErr):
			return services.NewValidationError("request body too large", err)
		default:
			return services.NewValidationError("invalid request body format", err)
		}
	}
	return nil
}
