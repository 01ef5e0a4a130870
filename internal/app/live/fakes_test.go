// internal/app/live/fakes_test.go
package live

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/docdeck/docdeck/internal/app/store/apis"
	"github.com/docdeck/docdeck/internal/app/store/documents"
	"github.com/docdeck/docdeck/internal/app/store/users"
	"github.com/docdeck/docdeck/internal/domain/models"
)

type updateCall struct {
	id    primitive.ObjectID
	patch documents.Patch
}

type fakeDocSub struct {
	workspaceID primitive.ObjectID
	fn          func([]models.Document)
	canceled    bool
}

type fakeWsSub struct {
	userID   primitive.ObjectID
	fn       func([]models.Workspace)
	canceled bool
}

type fakeApiSub struct {
	workspaceID primitive.ObjectID
	fn          func([]models.ApiRegistration)
	canceled    bool
}

// fakeGateway is an in-memory Gateway with test-driven pushes. Pushes run
// synchronously on the caller's goroutine so tests stay deterministic.
type fakeGateway struct {
	mu         sync.Mutex
	workspaces map[primitive.ObjectID][]models.Workspace
	documents  map[primitive.ObjectID][]models.Document
	apis       map[primitive.ObjectID][]models.ApiRegistration

	wsSubs  []*fakeWsSub
	docSubs []*fakeDocSub
	apiSubs []*fakeApiSub

	updates   []updateCall
	updateErr error
	readErr   error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		workspaces: make(map[primitive.ObjectID][]models.Workspace),
		documents:  make(map[primitive.ObjectID][]models.Document),
		apis:       make(map[primitive.ObjectID][]models.ApiRegistration),
	}
}

func (g *fakeGateway) SubscribeWorkspaces(ctx context.Context, userID primitive.ObjectID, fn func([]models.Workspace)) (CancelFunc, error) {
	g.mu.Lock()
	if g.readErr != nil {
		err := g.readErr
		g.mu.Unlock()
		return nil, &RemoteReadError{Op: "subscribe workspaces", Err: err}
	}
	sub := &fakeWsSub{userID: userID, fn: fn}
	g.wsSubs = append(g.wsSubs, sub)
	list := g.workspaces[userID]
	g.mu.Unlock()

	fn(list)
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			sub.canceled = true
			g.mu.Unlock()
		})
	}, nil
}

func (g *fakeGateway) SubscribeDocuments(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.Document)) (CancelFunc, error) {
	g.mu.Lock()
	if g.readErr != nil {
		err := g.readErr
		g.mu.Unlock()
		return nil, &RemoteReadError{Op: "subscribe documents", Err: err}
	}
	sub := &fakeDocSub{workspaceID: workspaceID, fn: fn}
	g.docSubs = append(g.docSubs, sub)
	list := g.documents[workspaceID]
	g.mu.Unlock()

	fn(list)
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			sub.canceled = true
			g.mu.Unlock()
		})
	}, nil
}

func (g *fakeGateway) SubscribeApis(ctx context.Context, workspaceID primitive.ObjectID, fn func([]models.ApiRegistration)) (CancelFunc, error) {
	g.mu.Lock()
	if g.readErr != nil {
		err := g.readErr
		g.mu.Unlock()
		return nil, &RemoteReadError{Op: "subscribe apis", Err: err}
	}
	sub := &fakeApiSub{workspaceID: workspaceID, fn: fn}
	g.apiSubs = append(g.apiSubs, sub)
	list := g.apis[workspaceID]
	g.mu.Unlock()

	fn(list)
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			sub.canceled = true
			g.mu.Unlock()
		})
	}, nil
}

func (g *fakeGateway) UpdateDocument(ctx context.Context, id primitive.ObjectID, patch documents.Patch) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.updateErr != nil {
		return &RemoteWriteError{Op: "update document", Err: g.updateErr}
	}
	g.updates = append(g.updates, updateCall{id: id, patch: patch})
	return nil
}

func (g *fakeGateway) CreateDocument(ctx context.Context, doc models.Document) (models.Document, error) {
	doc.ID = primitive.NewObjectID()
	g.mu.Lock()
	g.documents[doc.WorkspaceID] = append(g.documents[doc.WorkspaceID], doc)
	g.mu.Unlock()
	return doc, nil
}

func (g *fakeGateway) CreateApi(ctx context.Context, workspaceID primitive.ObjectID, fields apis.Fields) (models.ApiRegistration, error) {
	reg := models.ApiRegistration{
		ID:          primitive.NewObjectID(),
		Name:        fields.Name,
		WorkspaceID: workspaceID,
	}
	g.mu.Lock()
	g.apis[workspaceID] = append(g.apis[workspaceID], reg)
	g.mu.Unlock()
	return reg, nil
}

func (g *fakeGateway) Members(ctx context.Context, ws models.Workspace) ([]models.UserProfile, error) {
	return nil, nil
}

// pushWorkspaces stores a new list for the user and delivers it to live
// subscriptions.
func (g *fakeGateway) pushWorkspaces(userID primitive.ObjectID, list []models.Workspace) {
	g.mu.Lock()
	g.workspaces[userID] = list
	var fns []func([]models.Workspace)
	for _, sub := range g.wsSubs {
		if sub.userID == userID && !sub.canceled {
			fns = append(fns, sub.fn)
		}
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(list)
	}
}

func (g *fakeGateway) pushDocuments(workspaceID primitive.ObjectID, list []models.Document) {
	g.mu.Lock()
	g.documents[workspaceID] = list
	var fns []func([]models.Document)
	for _, sub := range g.docSubs {
		if sub.workspaceID == workspaceID && !sub.canceled {
			fns = append(fns, sub.fn)
		}
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn(list)
	}
}

func (g *fakeGateway) updateCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.updates)
}

func (g *fakeGateway) lastUpdate() (updateCall, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.updates) == 0 {
		return updateCall{}, false
	}
	return g.updates[len(g.updates)-1], true
}

func (g *fakeGateway) setUpdateErr(err error) {
	g.mu.Lock()
	g.updateErr = err
	g.mu.Unlock()
}

// activeDocSubs counts document subscriptions that have not been canceled.
func (g *fakeGateway) activeDocSubs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, sub := range g.docSubs {
		if !sub.canceled {
			n++
		}
	}
	return n
}

// fakeProfiles is an in-memory ProfileStore.
type fakeProfiles struct {
	mu       sync.Mutex
	byAuthID map[string]models.UserProfile
	readErr  error
	creates  int
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{byAuthID: make(map[string]models.UserProfile)}
}

func (f *fakeProfiles) GetByAuthID(ctx context.Context, authID string) (models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.readErr != nil {
		return models.UserProfile{}, f.readErr
	}
	p, ok := f.byAuthID[authID]
	if !ok {
		return models.UserProfile{}, users.ErrNotFound
	}
	return p, nil
}

func (f *fakeProfiles) Create(ctx context.Context, u models.UserProfile) (models.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	u.ID = primitive.NewObjectID()
	f.byAuthID[u.AuthID] = u
	return u, nil
}

// blockingImprover parks Improve until release is closed.
type blockingImprover struct {
	release chan struct{}
	result  string
	err     error

	mu    sync.Mutex
	calls int
}

func (b *blockingImprover) Improve(ctx context.Context, content string) (string, error) {
	b.mu.Lock()
	b.calls++
	b.mu.Unlock()
	if b.release != nil {
		<-b.release
	}
	return b.result, b.err
}

func (b *blockingImprover) callCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.calls
}
