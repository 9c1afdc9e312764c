package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ecomlab/seller_insights/internal/helper"
	"github.com/ecomlab/seller_insights/internal/logger/field"
	mw "github.com/ecomlab/seller_insights/internal/servers/http/middlerware"
	"github.com/ecomlab/seller_insights/internal/services/storage"
	"github.com/ecomlab/seller_insights/internal/services/storage/model"
)

const dateLayout = "2006-01-02"

type (
	FormProductAnalytics struct {
		ID          int64  `uri:"id" binding:"required,min=1,max=9223372036854775807"`
		StartDate   string `form:"start_date" binding:"required,len=10"`
		EndDate     string `form:"end_date" binding:"required,len=10"`
		MinGmvCents *int64 `form:"min_gmv_cents" binding:"omitempty,min=0"`
	}

	FormPostSync struct {
		ID        int64  `uri:"id" binding:"required,min=1,max=9223372036854775807"`
		StartDate string `form:"start_date" json:"start_date" binding:"required,len=10"`
		EndDate   string `form:"end_date" json:"end_date" binding:"required,len=10"`
	}

	FormPostShop struct {
		Name           string `form:"name" json:"name" binding:"required,min=1,max=255"`
		Cookie         string `form:"cookie" json:"cookie" binding:"required"`
		OecSellerID    string `form:"oec_seller_id" json:"oec_seller_id" binding:"required,min=1,max=64"`
		BaseURL        string `form:"base_url" json:"base_url" binding:"omitempty,url"`
		Fp             string `form:"fp" json:"fp"`
		TimezoneOffset *int   `form:"timezone_offset" json:"timezone_offset"`
		Region         string `form:"region" json:"region" binding:"omitempty,len=2"`
	}
)

// Health godoc
// @Summary Health check
// @Description health check
// @Id Health
// @Tags Server Base
// @Accept  json
// @Produce  json
// @Success 200
// @Router /health [get]
func Health(c *gin.Context) {
	c.String(http.StatusOK, "")
}

// Readiness godoc
// @Summary Ready check
// @Description ready check
// @Id Ready
// @Tags Server Base
// @Accept  json
// @Produce  json
// @Success 200
// @Router /ready [get]
func Readiness(c *gin.Context) {
	c.String(http.StatusOK, "ready")
}

// GetProductAnalytics godoc
// @Summary Get aggregated product analytics
// @Description per-product gmv/items/orders sums over an inclusive date range
// @Id GetProductAnalytics
// @Tags Server API
// @Param id path int true "id of shop"
// @Param start_date query string true "range start, YYYY-MM-DD"
// @Param end_date query string true "range end, YYYY-MM-DD"
// @Param min_gmv_cents query int false "keep only products whose summed gmv >= this value (minor units)"
// @Accept  json
// @Produce  json
// @Success 200
// @Failure 400 {object} HTTPErrorResponse
// @Failure 404 {object} HTTPErrorResponse
// @Failure 500 {object} HTTPErrorResponse
// @Router /api/v1/shops/{id}/product_analytics [get]
func (s *Server) GetProductAnalytics(c *gin.Context) {
	ctx, cf := context.WithCancel(
		helper.NewContextWithUUID(c.Copy().Request.Context(), c.GetString(mw.XRequestID)),
	)
	defer cf()

	f := FormProductAnalytics{}
	if err := c.ShouldBindUri(&f); err != nil {
		s.log.Error("can not parse params (uri)", field.Any("form", f), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "can not parse params (uri)", err)

		return
	}

	if err := c.ShouldBindQuery(&f); err != nil {
		s.log.Error("can not parse params (query)", field.ID(f.ID), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "can not parse params (query)", err)

		return
	}

	startDate, endDate, err := parseDateRange(f.StartDate, f.EndDate)
	if err != nil {
		s.log.Error("bad date range", field.ID(f.ID), field.Any("form", f), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "bad date range", err)

		return
	}

	rows, err := s.analytics.ProductAnalytics(ctx, model.Identity(f.ID), startDate, endDate, f.MinGmvCents)
	if err != nil {
		if errors.Is(err, storage.ErrShopNotFound) {
			s.SendErrorJSON(c, http.StatusNotFound, "shop not found", err)

			return
		}

		s.log.Error("can not aggregate product analytics", field.ID(f.ID), field.Error(err))
		s.SendErrorJSON(c, http.StatusInternalServerError, "can not aggregate product analytics", err)

		return
	}

	s.SendJSON(c, http.StatusOK, "ok", gin.H{"analytics": rows})
}

// PostSync godoc
// @Summary Sync product metrics for a date range
// @Description fetch daily metrics from the platform and upsert products/snapshots
// @Id PostSync
// @Tags Server API
// @Param id path int true "id of shop"
// @Accept  json
// @Produce  json
// @Success 200
// @Failure 400 {object} HTTPErrorResponse
// @Failure 404 {object} HTTPErrorResponse
// @Router /api/v1/shops/{id}/sync [post]
func (s *Server) PostSync(c *gin.Context) {
	ctx, cf := context.WithCancel(
		helper.NewContextWithUUID(c.Copy().Request.Context(), c.GetString(mw.XRequestID)),
	)
	defer cf()

	f := FormPostSync{}
	if err := c.ShouldBindUri(&f); err != nil {
		s.log.Error("can not parse params (uri)", field.Any("form", f), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "can not parse params (uri)", err)

		return
	}

	if err := c.ShouldBind(&f); err != nil {
		s.log.Error("can not parse params (body)", field.ID(f.ID), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "can not parse params (body)", err)

		return
	}

	startDate, endDate, err := parseDateRange(f.StartDate, f.EndDate)
	if err != nil {
		s.log.Error("bad date range", field.ID(f.ID), field.Any("form", f), field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "bad date range", err)

		return
	}

	report, err := s.sync.Run(ctx, model.Identity(f.ID), startDate, endDate)
	if err != nil {
		if errors.Is(err, storage.ErrShopNotFound) {
			s.SendErrorJSON(c, http.StatusNotFound, "shop not found", err)

			return
		}

		s.log.Error("sync run failed", field.ID(f.ID), field.Error(err))
		s.SendErrorJSON(c, http.StatusInternalServerError, "sync run failed", err)

		return
	}

	// partial failures are still a 200, the report carries them
	s.SendJSON(c, http.StatusOK, "sync finished", gin.H{
		"success": report.Success,
		"errors":  report.Errors,
	})
}

// PostShop godoc
// @Summary Register a shop
// @Description register shop credentials for harvesting
// @Id PostShop
// @Tags Server API
// @Accept  json
// @Produce  json
// @Success 200
// @Failure 400 {object} HTTPErrorResponse
// @Failure 500 {object} HTTPErrorResponse
// @Router /api/v1/shops [post]
func (s *Server) PostShop(c *gin.Context) {
	ctx, cf := context.WithCancel(
		helper.NewContextWithUUID(c.Copy().Request.Context(), c.GetString(mw.XRequestID)),
	)
	defer cf()

	f := FormPostShop{}
	if err := c.ShouldBind(&f); err != nil {
		s.log.Error("can not parse params (body)", field.Error(err))
		s.SendErrorJSON(c, http.StatusBadRequest, "can not parse params (body)", err)

		return
	}

	shop := model.Shop{
		Name:           f.Name,
		Cookie:         f.Cookie,
		OecSellerID:    f.OecSellerID,
		BaseURL:        f.BaseURL,
		Fp:             f.Fp,
		TimezoneOffset: model.DefaultTimezoneOffset,
		Region:         f.Region,
	}

	if shop.BaseURL == "" {
		shop.BaseURL = model.DefaultBaseURL
	}

	if shop.Region == "" {
		shop.Region = model.DefaultRegion
	}

	if f.TimezoneOffset != nil {
		shop.TimezoneOffset = *f.TimezoneOffset
	}

	id, err := s.storage.Shops().Create(ctx, shop)
	if err != nil {
		s.log.Error("can not create new shop", field.Any("shop", shop.Name), field.Error(err))
		s.SendErrorJSON(c, http.StatusInternalServerError, "can not create new shop", err)

		return
	}

	s.SendJSON(c, http.StatusOK, "successfully registered new shop", gin.H{
		"ShopID": id,
	})
}

func parseDateRange(start, end string) (time.Time, time.Time, error) {
	startDate, err := time.Parse(dateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	endDate, err := time.Parse(dateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if endDate.Before(startDate) {
		return time.Time{}, time.Time{}, errors.New("end_date is before start_date")
	}

	return startDate, endDate, nil
}
