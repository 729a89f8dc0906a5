package business

import (
	"context"
	"errors"

	channelentities "github.com/stavropolsky/tg-track/internal/domain/channel/entities"
	channelerrors "github.com/stavropolsky/tg-track/internal/domain/channel/errors"
	registryentities "github.com/stavropolsky/tg-track/internal/domain/registry/entities"
)

// memoryRegistry is an in-memory registry with the same uniqueness rules as postgres
type memoryRegistry struct {
	channels  []registryentities.Channel
	keywords  []registryentities.Keyword
	blacklist []registryentities.BlacklistEntry
	err       error
}

func (r *memoryRegistry) AddChannel(_ context.Context, chatID int64, url string, t registryentities.ChannelType) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	url = registryentities.CanonicalURL(url)
	for _, ch := range r.channels {
		if ch.ChatID == chatID || ch.URL == url {
			return false, nil
		}
	}
	r.channels = append(r.channels, registryentities.Channel{ID: uint(len(r.channels) + 1), ChatID: chatID, URL: url, Type: t})
	return true, nil
}

func (r *memoryRegistry) RemoveChannel(_ context.Context, url string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	url = registryentities.CanonicalURL(url)
	for i, ch := range r.channels {
		if ch.URL == url {
			r.channels = append(r.channels[:i], r.channels[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRegistry) ListChannels(context.Context) ([]registryentities.Channel, error) {
	return r.channels, r.err
}

func (r *memoryRegistry) ChannelType(_ context.Context, chatID int64) (registryentities.ChannelType, bool, error) {
	for _, ch := range r.channels {
		if ch.ChatID == chatID {
			return ch.Type, true, nil
		}
	}
	return "", false, r.err
}

func (r *memoryRegistry) AddKeyword(_ context.Context, keyword string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, kw := range r.keywords {
		if kw.Keyword == keyword {
			return false, nil
		}
	}
	r.keywords = append(r.keywords, registryentities.Keyword{ID: uint(len(r.keywords) + 1), Keyword: keyword})
	return true, nil
}

func (r *memoryRegistry) RemoveKeyword(_ context.Context, keyword string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for i, kw := range r.keywords {
		if kw.Keyword == keyword {
			r.keywords = append(r.keywords[:i], r.keywords[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRegistry) ListKeywords(context.Context) ([]registryentities.Keyword, error) {
	return r.keywords, r.err
}

func (r *memoryRegistry) UpsertBlacklist(_ context.Context, userID int64, username string) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	for _, e := range r.blacklist {
		if e.UserID == userID {
			return false, nil
		}
	}
	entry := registryentities.BlacklistEntry{ID: uint(len(r.blacklist) + 1), UserID: userID}
	if username != "" {
		name := registryentities.NormalizeUsername(username)
		entry.Username = &name
	}
	r.blacklist = append(r.blacklist, entry)
	return true, nil
}

func (r *memoryRegistry) RemoveBlacklist(ctx context.Context, id registryentities.Identifier) (bool, error) {
	if r.err != nil {
		return false, r.err
	}
	userID := id.ID()
	if id.IsName() {
		found, ok, _ := r.LookupBlacklistedID(ctx, id.Name())
		if !ok {
			return false, nil
		}
		userID = found
	}
	for i, e := range r.blacklist {
		if e.UserID == userID {
			r.blacklist = append(r.blacklist[:i], r.blacklist[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRegistry) ListBlacklist(context.Context) ([]registryentities.BlacklistEntry, error) {
	return r.blacklist, r.err
}

func (r *memoryRegistry) IsBlacklisted(ctx context.Context, id registryentities.Identifier) (bool, error) {
	if id.IsName() {
		_, ok, err := r.LookupBlacklistedID(ctx, id.Name())
		return ok, err
	}
	for _, e := range r.blacklist {
		if e.UserID == id.ID() {
			return true, nil
		}
	}
	return false, r.err
}

func (r *memoryRegistry) LookupBlacklistedID(_ context.Context, username string) (int64, bool, error) {
	for _, e := range r.blacklist {
		if e.Username != nil && *e.Username == username {
			return e.UserID, true, nil
		}
	}
	return 0, false, r.err
}

type mockResolver struct {
	infos map[string]*channelentities.ChannelInfo
	err   error
}

func (m *mockResolver) Resolve(_ context.Context, reference string) (*channelentities.ChannelInfo, error) {
	if m.err != nil {
		return nil, m.err
	}
	ref, err := channelentities.ParseReference(reference)
	if err != nil {
		return nil, err
	}
	info, ok := m.infos[ref.Canonical()]
	if !ok {
		return nil, errors.Join(channelerrors.ErrResolution, errors.New("USERNAME_NOT_OCCUPIED"))
	}
	return info, nil
}

type mockDestination struct {
	info *channelentities.ChannelInfo
	err  error
}

func (m *mockDestination) Locate(context.Context) (*channelentities.ChannelInfo, error) {
	return m.info, m.err
}

type mockUsers struct {
	byID   map[int64]string
	byName map[string]int64
	err    error
}

func (m *mockUsers) LookupUserByID(_ context.Context, id int64) (*channelentities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	name, ok := m.byID[id]
	if !ok {
		return nil, errors.New("USER_ID_INVALID")
	}
	return &channelentities.User{ID: id, Username: name}, nil
}

func (m *mockUsers) LookupUserByUsername(_ context.Context, username string) (*channelentities.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	id, ok := m.byName[username]
	if !ok {
		return nil, channelerrors.ErrUserNotFound
	}
	return &channelentities.User{ID: id, Username: username}, nil
}

type mockJoiner struct {
	joined []string
	err    error
}

func (m *mockJoiner) JoinChannel(_ context.Context, handle string) error {
	m.joined = append(m.joined, handle)
	return m.err
}
