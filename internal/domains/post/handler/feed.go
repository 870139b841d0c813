package handler

import (
	"encoding/xml"
	"net/http"
	"time"

	"blog-backend/internal/domains/post/model"

	"github.com/gin-gonic/gin"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	Author      string `xml:"author,omitempty"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// FeedXML renders the feed listing as an RSS 2.0 document
func (h *PostHandler) FeedXML(c *gin.Context) {
	posts, err := h.service.ListFeed(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	feed := h.buildFeed(posts)
	c.Header("Content-Type", "application/rss+xml; charset=utf-8")
	c.Status(http.StatusOK)
	_, _ = c.Writer.Write([]byte(xml.Header))
	if err := xml.NewEncoder(c.Writer).Encode(feed); err != nil {
		_ = c.Error(err)
	}
}

func (h *PostHandler) buildFeed(posts []model.Post) rssXML {
	base := h.site.URL
	items := make([]rssItem, 0, len(posts))
	for _, p := range posts {
		link := base + h.publicPath() + p.Slug
		description := p.MetaDescription
		if description == "" {
			description = p.Excerpt
		}
		item := rssItem{
			Title:       p.Title,
			Link:        link,
			Description: description,
			PubDate:     p.Date.UTC().Format(time.RFC1123Z),
			GUID:        link,
		}
		if p.PostedBy != nil {
			item.Author = p.PostedBy.Name
		}
		items = append(items, item)
	}

	return rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       h.site.Title,
			Link:        base,
			Description: h.site.Description,
			Items:       items,
		},
	}
}

// publicPath is where the site renders a post of the handler's kind
func (h *PostHandler) publicPath() string {
	if h.kind == model.KindWebStory {
		return "/web-stories/"
	}
	return "/blogs/"
}
