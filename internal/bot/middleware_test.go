package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
	"pgregory.net/rapid"

	"golden-casino/internal/config"
)

func TestAdmit(t *testing.T) {
	group := &tele.Chat{ID: -100, Type: tele.ChatGroup}
	otherGroup := &tele.Chat{ID: -200, Type: tele.ChatSuperGroup}
	private := &tele.Chat{ID: 7, Type: tele.ChatPrivate}
	ada := &tele.User{ID: 7}

	open := &config.Config{}
	assert.True(t, admit(open, NewMembers(), private, ada))
	assert.True(t, admit(open, NewMembers(), otherGroup, ada))
	assert.False(t, admit(open, NewMembers(), nil, ada))
	assert.False(t, admit(open, NewMembers(), group, nil))

	closed := &config.Config{Whitelist: config.WhitelistConfig{Chats: []int64{-100}}}
	members := NewMembers()
	assert.False(t, admit(closed, members, private, ada), "strangers cannot talk in private")
	assert.False(t, admit(closed, members, otherGroup, ada))
	assert.True(t, admit(closed, members, group, ada))
	assert.True(t, admit(closed, members, private, ada), "group members can talk in private")
}

// TestWhitelistEnforcementProperty checks that a group is admitted
// exactly when its ID is whitelisted.
func TestWhitelistEnforcementProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		chatIDs := rapid.SliceOfN(rapid.Int64Range(-1000000000, -1), 1, 10).Draw(t, "chatIDs")
		cfg := &config.Config{Whitelist: config.WhitelistConfig{Chats: chatIDs}}

		testChatID := rapid.Int64Range(-1000000000, -1).Draw(t, "testChatID")
		want := false
		for _, id := range chatIDs {
			if id == testChatID {
				want = true
				break
			}
		}

		chat := &tele.Chat{ID: testChatID, Type: tele.ChatGroup}
		got := admit(cfg, NewMembers(), chat, &tele.User{ID: 1})
		if got != want {
			t.Fatalf("admit chat %d with whitelist %v = %v, want %v", testChatID, chatIDs, got, want)
		}
	})
}

// TestEmptyWhitelistAllowsAllChatsProperty checks that an empty whitelist
// admits every chat.
func TestEmptyWhitelistAllowsAllChatsProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cfg := &config.Config{}
		chatID := rapid.Int64().Draw(t, "chatID")
		chatType := rapid.SampledFrom([]tele.ChatType{tele.ChatPrivate, tele.ChatGroup, tele.ChatSuperGroup}).Draw(t, "chatType")

		if !admit(cfg, NewMembers(), &tele.Chat{ID: chatID, Type: chatType}, &tele.User{ID: 1}) {
			t.Fatalf("empty whitelist rejected chat %d (%s)", chatID, chatType)
		}
	})
}

// TestMembersProperty checks that allowed users stay allowed and others
// are never admitted.
func TestMembersProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		m := NewMembers()
		allowed := rapid.SliceOfNDistinct(rapid.Int64Range(1, 1000000000), 0, 20, rapid.ID[int64]).Draw(t, "allowed")
		set := make(map[int64]bool, len(allowed))
		for _, id := range allowed {
			m.Allow(id)
			set[id] = true
		}

		other := rapid.Int64Range(1, 1000000000).Draw(t, "other")
		if m.Allowed(other) != set[other] {
			t.Fatalf("Allowed(%d) = %v, want %v", other, m.Allowed(other), set[other])
		}
		for _, id := range allowed {
			if !m.Allowed(id) {
				t.Fatalf("user %d was allowed and then forgotten", id)
			}
		}
	})
}
