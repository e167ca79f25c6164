// Package persistence holds the storage and URL sinks the questionnaire
// state is synchronized with.
package persistence

import (
	"context"
	"sync"
)

// Storage keys, before namespacing.
const (
	KeyPreferences            = "preferences"
	KeyMessages               = "messages"
	KeyRecommendations        = "recommendations"
	KeyRecommendationRecordID = "recommendationRecordId"
	KeyRecommendationFeedback = "recommendationFeedback"
	KeyCurrentStep            = "currentStep"
	KeyChatStarted            = "chatStarted"
	KeyTitleScreenShown       = "titleScreenShown"
	KeyRecommendationsShown   = "recommendationsShown"
)

const DefaultNamespace = "wayfinder"

// Gateway is durable string storage. A missing key is reported with
// ok=false and a nil error.
type Gateway interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

// Namespaced prefixes every key written through it.
type Namespaced struct {
	Gateway   Gateway
	Namespace string
}

func NewNamespaced(gw Gateway, namespace string) *Namespaced {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &Namespaced{Gateway: gw, Namespace: namespace}
}

func (n *Namespaced) Key(key string) string {
	return n.Namespace + ":" + key
}

func (n *Namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.Gateway.Get(ctx, n.Key(key))
}

func (n *Namespaced) Set(ctx context.Context, key string, value string) error {
	return n.Gateway.Set(ctx, n.Key(key), value)
}

func (n *Namespaced) Remove(ctx context.Context, key string) error {
	return n.Gateway.Remove(ctx, n.Key(key))
}

type MemoryGateway struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: make(map[string]string)}
}

func (m *MemoryGateway) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *MemoryGateway) Set(_ context.Context, key string, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryGateway) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// Keys lists every stored key; handy in tests.
func (m *MemoryGateway) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	return keys
}

// SessionGateways hands out the gateway backing one session.
type SessionGateways interface {
	ForSession(sessionID string) Gateway
}

// MemorySessions keeps one MemoryGateway per session in process memory.
type MemorySessions struct {
	mu       sync.Mutex
	sessions map[string]*MemoryGateway
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[string]*MemoryGateway)}
}

func (m *MemorySessions) ForSession(sessionID string) Gateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	gw, ok := m.sessions[sessionID]
	if !ok {
		gw = NewMemoryGateway()
		m.sessions[sessionID] = gw
	}
	return gw
}
