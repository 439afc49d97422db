package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"AProject/logger"
	"AProject/tools/errs"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
}

type sitemapIndex struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []sitemapURL `xml:"url"`
}

// HandleSitemap lists the meetings index plus one URL per known meeting,
// live meetings marked as changing hourly.
func (h *Handler) HandleSitemap(c *gin.Context) {
	entries, err := h.svc.SitemapEntries(c.Request.Context())
	if err != nil {
		logger.Error("sitemap query failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, errs.ErrInternalServer)
		return
	}

	base := "https://" + c.Request.Host
	idx := sitemapIndex{
		XMLNS: "http://www.sitemaps.org/schemas/sitemap/0.9",
		URLs: []sitemapURL{
			{Loc: base + "/meetings", ChangeFreq: "hourly"},
		},
	}
	for _, e := range entries {
		u := sitemapURL{
			Loc:     base + "/meetings/" + e.MeetingID,
			LastMod: e.LastUpdatedAt.UTC().Format(time.RFC3339),
		}
		if e.CurrentCount > 0 {
			u.ChangeFreq = "hourly"
		}
		idx.URLs = append(idx.URLs, u)
	}

	c.XML(http.StatusOK, idx)
}
