// Package media resolves the reveal video id into a playable source for the
// configured provider.
package media

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

const (
	ProviderYouTube    = "youtube"
	ProviderCloudinary = "cloudinary"
)

var ErrEmptyMediaID = errors.New("media id is empty")

type Source struct {
	Provider string `json:"provider"`
	MediaID  string `json:"media_id"`
	URL      string `json:"url"`
}

type Resolver interface {
	Provider() string
	Resolve(mediaID string) (Source, error)
}

// YouTube builds iframe embed URLs. The player starts muted and inline so
// programmatic play is accepted on mobile.
type YouTube struct{}

func (YouTube) Provider() string { return ProviderYouTube }

func (YouTube) Resolve(mediaID string) (Source, error) {
	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		return Source{}, ErrEmptyMediaID
	}
	q := url.Values{}
	q.Set("enablejsapi", "1")
	q.Set("playsinline", "1")
	q.Set("mute", "1")
	q.Set("rel", "0")
	q.Set("modestbranding", "1")
	return Source{
		Provider: ProviderYouTube,
		MediaID:  mediaID,
		URL:      "https://www.youtube.com/embed/" + url.PathEscape(mediaID) + "?" + q.Encode(),
	}, nil
}

type Cloudinary struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinary(cloudName, apiKey, apiSecret string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &Cloudinary{cld: cld}, nil
}

func (c *Cloudinary) Provider() string { return ProviderCloudinary }

// Resolve treats mediaID as a Cloudinary public id of a video asset.
func (c *Cloudinary) Resolve(mediaID string) (Source, error) {
	mediaID = strings.TrimSpace(mediaID)
	if mediaID == "" {
		return Source{}, ErrEmptyMediaID
	}
	asset, err := c.cld.Video(mediaID)
	if err != nil {
		return Source{}, fmt.Errorf("failed to build video asset: %w", err)
	}
	u, err := asset.String()
	if err != nil {
		return Source{}, fmt.Errorf("failed to build video url: %w", err)
	}
	return Source{Provider: ProviderCloudinary, MediaID: mediaID, URL: u}, nil
}

// New picks the resolver for provider. Cloudinary needs all three credentials.
func New(provider, cloudName, apiKey, apiSecret string) (Resolver, error) {
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case "", ProviderYouTube:
		return YouTube{}, nil
	case ProviderCloudinary:
		if cloudName == "" || apiKey == "" || apiSecret == "" {
			return nil, errors.New("cloudinary provider requires CLOUDINARY_CLOUD_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET")
		}
		return NewCloudinary(cloudName, apiKey, apiSecret)
	default:
		return nil, fmt.Errorf("unknown video provider %q", provider)
	}
}
