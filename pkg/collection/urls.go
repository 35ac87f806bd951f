package collection

import (
	"strings"
)

const (
	DefaultMediaURL = "https://media.vam.ac.uk/media/thira/collection_images"
	DefaultItemURL  = "https://collections.vam.ac.uk/item"
)

// Assets derives asset and deep-link URLs from record identifiers.
type Assets struct {
	MediaURL string
	ItemURL  string
}

// DefaultAssets points at the public media and collections hosts.
var DefaultAssets = Assets{MediaURL: DefaultMediaURL, ItemURL: DefaultItemURL}

// ImageURLs returns the low and high resolution image URLs. Images are
// sharded by the first six characters of the id.
func (a Assets) ImageURLs(primaryImageID string) (low, high string) {
	shard := primaryImageID
	if len(shard) > 6 {
		shard = shard[:6]
	}
	base := strings.TrimSuffix(a.MediaURL, "/") + "/" + shard + "/" + primaryImageID
	return base + "_jpg_s.jpg", base + "_jpg_ds.jpg"
}

// SourceURL is the public page of an object.
func (a Assets) SourceURL(objectNumber string) string {
	return strings.TrimSuffix(a.ItemURL, "/") + "/" + objectNumber
}

const uriUnescaped = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789;,/?:@&=+$-_.!~*'()#"

// EncodeURI percent-encodes s the way a browser's encodeURI does: reserved
// URI characters are kept, everything else is UTF-8 percent-encoded.
func EncodeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(uriUnescaped, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}
