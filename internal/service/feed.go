package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"sort"
	"strings"
	"time"

	"poap2rss/internal/cache"
	"poap2rss/internal/domain"
	"poap2rss/internal/poap"
)

// ErrFeedNotFound means the requested event or address is unknown
// upstream; the boundary maps it to a 404.
var ErrFeedNotFound = errors.New("feed not found")

const generator = "POAP2RSS/1.0"

// Config holds feed assembly configuration.
type Config struct {
	CacheTTL            time.Duration
	RecentClaimsLimit   int
	InactivityThreshold time.Duration
}

// RenderOptions are per-request switches. They affect only entry
// composition, never what gets cached.
type RenderOptions struct {
	SuppressInactivity bool
}

// FeedService assembles ordered feed entries for event and address
// feeds, driving the cache, the upstream source, and the alias
// resolver.
type FeedService struct {
	source   Source
	cache    DataCache
	resolver Resolver
	logger   *slog.Logger
	cfg      Config
	now      func() time.Time
}

// NewFeedService creates a FeedService.
func NewFeedService(source Source, dataCache DataCache, resolver Resolver, logger *slog.Logger, cfg Config) *FeedService {
	return &FeedService{
		source:   source,
		cache:    dataCache,
		resolver: resolver,
		logger:   logger.With("component", "feed"),
		cfg:      cfg,
		now:      time.Now,
	}
}

// eventSnapshot is the cached upstream bundle for one event feed. One
// cache entry covers both the event metadata and its recent claims, so
// a render costs at most one upstream fetch sequence per TTL window.
type eventSnapshot struct {
	Event  domain.EventRecord   `json:"event"`
	Claims []domain.ClaimRecord `json:"claims"`
}

type addressSnapshot struct {
	Claims []domain.ClaimRecord `json:"claims"`
}

// EventFeed produces the ordered entry list for an event feed:
// metadata entry first, then the optional inactivity notice, then
// claim entries most-recent-first.
func (s *FeedService) EventFeed(ctx context.Context, eventID int64, opts RenderOptions) (*domain.Feed, error) {
	payload, err := s.cache.GetOrFetch(ctx, cache.EventKey(eventID), s.cfg.CacheTTL, func(ctx context.Context) ([]byte, error) {
		event, err := s.source.GetEvent(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("fetch event %d: %w", eventID, err)
		}
		claims, err := s.source.GetRecentClaims(ctx, eventID, s.cfg.RecentClaimsLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch claims for event %d: %w", eventID, err)
		}
		return json.Marshal(eventSnapshot{Event: event, Claims: claims})
	})
	if err != nil {
		if errors.Is(err, poap.ErrNotFound) {
			return nil, fmt.Errorf("%w: event %d", ErrFeedNotFound, eventID)
		}
		return nil, err
	}

	var snap eventSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode event snapshot: %w", err)
	}

	claims := normalizeClaims(snap.Claims, s.cfg.RecentClaimsLimit)
	now := s.now()

	s.logger.Debug("assembling event feed",
		"event_id", eventID,
		"claims", len(claims),
	)

	entries := make([]domain.FeedEntry, 0, len(claims)+2)
	entries = append(entries, eventMetadataEntry(snap.Event))

	if !opts.SuppressInactivity {
		lastActivity := snap.Event.StartDate
		if len(claims) > 0 {
			lastActivity = claims[0].ClaimedAt
		}
		query := fmt.Sprintf("event=%d", eventID)
		if entry, ok := inactivityEntry(now, lastActivity, s.cfg.InactivityThreshold, query); ok {
			entries = append(entries, entry)
		}
	}

	for _, claim := range claims {
		entries = append(entries, s.eventClaimEntry(ctx, claim, snap.Event))
	}

	return &domain.Feed{
		Channel: eventChannel(snap.Event, now),
		Entries: entries,
	}, nil
}

// AddressFeed produces the ordered entry list for an address's
// collection: no metadata entry, optional inactivity notice first,
// then collected-claim entries most-recent-first.
func (s *FeedService) AddressFeed(ctx context.Context, address string, opts RenderOptions) (*domain.Feed, error) {
	payload, err := s.cache.GetOrFetch(ctx, cache.AddressKey(address), s.cfg.CacheTTL, func(ctx context.Context) ([]byte, error) {
		claims, err := s.source.GetAddressCollection(ctx, address, s.cfg.RecentClaimsLimit)
		if err != nil {
			return nil, fmt.Errorf("fetch collection for %s: %w", address, err)
		}
		return json.Marshal(addressSnapshot{Claims: claims})
	})
	if err != nil {
		if errors.Is(err, poap.ErrNotFound) {
			return nil, fmt.Errorf("%w: address %s", ErrFeedNotFound, address)
		}
		return nil, err
	}

	var snap addressSnapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("decode address snapshot: %w", err)
	}

	claims := normalizeClaims(snap.Claims, s.cfg.RecentClaimsLimit)
	now := s.now()
	display := s.displayName(ctx, address, "")

	s.logger.Debug("assembling address feed",
		"address", address,
		"claims", len(claims),
	)

	entries := make([]domain.FeedEntry, 0, len(claims)+1)

	if !opts.SuppressInactivity {
		var lastActivity time.Time
		if len(claims) > 0 {
			lastActivity = claims[0].ClaimedAt
		}
		query := "address=" + strings.ToLower(address)
		if entry, ok := inactivityEntry(now, lastActivity, s.cfg.InactivityThreshold, query); ok {
			entries = append(entries, entry)
		}
	}

	for _, claim := range claims {
		entries = append(entries, addressClaimEntry(claim, display))
	}

	return &domain.Feed{
		Channel: addressChannel(address, display, now),
		Entries: entries,
	}, nil
}

// normalizeClaims deduplicates by (claimant, claim time), orders
// most-recent-first with the lowercased claimant address as the stable
// tie-break, and caps the list at limit.
func normalizeClaims(claims []domain.ClaimRecord, limit int) []domain.ClaimRecord {
	seen := make(map[string]struct{}, len(claims))
	out := make([]domain.ClaimRecord, 0, len(claims))
	for _, c := range claims {
		key := fmt.Sprintf("%s|%d", strings.ToLower(c.ClaimantAddress), c.ClaimedAt.Unix())
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ClaimedAt.Equal(out[j].ClaimedAt) {
			return out[i].ClaimedAt.After(out[j].ClaimedAt)
		}
		return strings.ToLower(out[i].ClaimantAddress) < strings.ToLower(out[j].ClaimantAddress)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// displayName prefers the upstream-provided ENS name, then a resolver
// lookup, then a shortened form of the raw address.
func (s *FeedService) displayName(ctx context.Context, address, ens string) string {
	if ens != "" {
		return ens
	}
	if alias := s.resolver.Resolve(ctx, address); alias != address {
		return alias
	}
	return shortenAddress(address)
}

func shortenAddress(address string) string {
	if len(address) <= 12 {
		return address
	}
	return address[:6] + "..." + address[len(address)-4:]
}

// claimGUID derives the claim entry identifier from the claim's
// natural key so re-renders of unchanged data emit identical guids.
func claimGUID(c domain.ClaimRecord) string {
	return fmt.Sprintf("poap2rss:claim:%d:%s:%d", c.EventID, strings.ToLower(c.ClaimantAddress), c.ClaimedAt.Unix())
}

func dropURL(eventID int64) string {
	return fmt.Sprintf("https://poap.gallery/drops/%d", eventID)
}

func tokenURL(tokenID string) string {
	return "https://collectors.poap.xyz/token/" + tokenID
}

func scanURL(address string) string {
	return "https://collectors.poap.xyz/scan/" + address
}

func eventChannel(event domain.EventRecord, now time.Time) domain.ChannelInfo {
	return domain.ChannelInfo{
		Title:       "POAP: " + event.Name,
		Description: fmt.Sprintf("Activity for %s POAP drop.", event.Name),
		Link:        dropURL(event.ID),
		SelfLink:    fmt.Sprintf("https://app.poap2rss.com/event/%d", event.ID),
		Language:    "en-us",
		Generator:   generator,
		BuildTime:   now,
	}
}

func addressChannel(address, display string, now time.Time) domain.ChannelInfo {
	return domain.ChannelInfo{
		Title:       fmt.Sprintf("POAP: %s Collection", display),
		Description: fmt.Sprintf("Latest POAP tokens for %s.", display),
		Link:        scanURL(address),
		SelfLink:    "https://app.poap2rss.com/address/" + address,
		Language:    "en-us",
		Generator:   generator,
		BuildTime:   now,
	}
}

// eventMetadataEntry is the one-per-feed entry describing the drop.
// Its guid depends on the event id alone, so it is stable across
// renders.
func eventMetadataEntry(event domain.EventRecord) domain.FeedEntry {
	name := html.EscapeString(event.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "<h3>%s</h3>", name)
	fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(event.Description))
	if event.ImageURL != "" {
		fmt.Fprintf(&b, `<img src="%s" width="500" height="500" />`, html.EscapeString(event.ImageURL))
	}
	if event.City != "" {
		fmt.Fprintf(&b, "<p><strong>Location:</strong> %s", html.EscapeString(event.City))
		if event.Country != "" {
			fmt.Fprintf(&b, ", %s", html.EscapeString(event.Country))
		}
		b.WriteString("</p>")
	}

	return domain.FeedEntry{
		GUID:        dropURL(event.ID),
		PermaLink:   true,
		Title:       event.Name + " Event Details",
		Link:        dropURL(event.ID),
		Body:        b.String(),
		PublishedAt: event.StartDate,
	}
}

func (s *FeedService) eventClaimEntry(ctx context.Context, claim domain.ClaimRecord, event domain.EventRecord) domain.FeedEntry {
	display := s.displayName(ctx, claim.ClaimantAddress, claim.ClaimantENS)

	var b strings.Builder
	fmt.Fprintf(&b, `<p><strong><a href="%s">%s</a></strong> claimed POAP <a href="%s">%s</a> for <strong><a href="%s">%s</a></strong></p>`,
		scanURL(claim.ClaimantAddress), html.EscapeString(display),
		tokenURL(claim.TokenID), claim.TokenID,
		dropURL(event.ID), html.EscapeString(event.Name),
	)
	if event.ImageURL != "" {
		fmt.Fprintf(&b, `<p><img src="%s" width="500" height="500" /></p>`, html.EscapeString(event.ImageURL))
	}

	return domain.FeedEntry{
		GUID:        claimGUID(claim),
		Title:       "New claim for " + event.Name,
		Author:      display,
		Link:        tokenURL(claim.TokenID),
		Body:        b.String(),
		PublishedAt: claim.ClaimedAt,
	}
}

func addressClaimEntry(claim domain.ClaimRecord, display string) domain.FeedEntry {
	var b strings.Builder
	fmt.Fprintf(&b, `<p>Collected POAP <a href="%s">%s</a> for <strong><a href="%s">%s</a></strong>.</p>`,
		tokenURL(claim.TokenID), claim.TokenID,
		dropURL(claim.EventID), html.EscapeString(claim.EventName),
	)
	if claim.EventImageURL != "" {
		fmt.Fprintf(&b, `<p><img src="%s" width="500" height="500" /></p>`, html.EscapeString(claim.EventImageURL))
	}

	return domain.FeedEntry{
		GUID:        claimGUID(claim),
		Title:       "Collected " + claim.EventName,
		Author:      display,
		Link:        tokenURL(claim.TokenID),
		Body:        b.String(),
		PublishedAt: claim.ClaimedAt,
	}
}
