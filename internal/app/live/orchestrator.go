// internal/app/live/orchestrator.go
package live

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/docdeck/docdeck/internal/domain/models"
)

// View names a top-level screen of the client.
type View string

const (
	ViewDashboard View = "dashboard"
	ViewEditor    View = "editor"
	ViewApis      View = "apis"
	ViewAnalytics View = "analytics"
	ViewSettings  View = "settings"
)

func ValidView(v View) bool {
	switch v {
	case ViewDashboard, ViewEditor, ViewApis, ViewAnalytics, ViewSettings:
		return true
	}
	return false
}

// Snapshot is a consistent frame of one client's state. Slices are replaced
// wholesale on every push and never mutated in place, so holding a Snapshot
// across a later change is safe.
type Snapshot struct {
	AuthState State
	Profile   models.UserProfile
	View      View

	Workspaces      []models.Workspace
	ActiveWorkspace *models.Workspace
	Documents       []models.Document
	ActiveDocument  *models.Document
	Apis            []models.ApiRegistration

	// Ready flags distinguish "empty" from "still loading". A failed
	// subscription leaves its flag false indefinitely.
	WorkspacesReady bool
	DocumentsReady  bool
	ApisReady       bool
}

// Orchestrator drives one client session: it reacts to identity changes,
// keeps the workspace/document/api subscriptions for the active workspace,
// auto-selects a workspace when none is chosen, and reseeds the editing
// session when the active document changes.
//
// Two generation counters keep teardown atomic. authGen guards the
// workspace stream across identity epochs; wsGen guards the document and
// api streams across workspace switches. A callback carrying a stale
// generation mutates nothing, so data from a workspace the user already
// left can never land in the new frame.
type Orchestrator struct {
	gw       Gateway
	identity *IdentityManager
	editor   *EditSession
	log      *zap.Logger

	mu      sync.Mutex
	ctx     context.Context
	authGen uint64
	wsGen   uint64

	view       View
	userID     primitive.ObjectID
	workspaces []models.Workspace
	documents  []models.Document
	apis       []models.ApiRegistration
	wsReady    bool
	docsReady  bool
	apisReady  bool

	activeWorkspaceID primitive.ObjectID
	activeDocumentID  primitive.ObjectID

	cancelWorkspaces CancelFunc
	cancelDocs       CancelFunc
	cancelApis       CancelFunc

	onChange func()
}

func NewOrchestrator(gw Gateway, identity *IdentityManager, editor *EditSession, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		gw:       gw,
		identity: identity,
		editor:   editor,
		log:      logger,
		view:     ViewDashboard,
	}
}

// SetOnChange registers a callback invoked after every state change. No
// locks are held during the call.
func (o *Orchestrator) SetOnChange(fn func()) {
	o.mu.Lock()
	o.onChange = fn
	o.mu.Unlock()
}

// Start wires the identity manager and begins reacting to auth state. ctx
// bounds the lifetime of every subscription the orchestrator opens.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	o.ctx = ctx
	o.mu.Unlock()
	o.identity.SetOnChange(o.onAuth)
	o.identity.Start()
}

func (o *Orchestrator) onAuth(state State, profile models.UserProfile) {
	switch state {
	case StateAuthenticated:
		o.subscribeWorkspaces(profile.ID)
	case StateAnonymous:
		o.reset()
	}
	o.notify()
}

func (o *Orchestrator) subscribeWorkspaces(userID primitive.ObjectID) {
	o.mu.Lock()
	if o.userID == userID && o.cancelWorkspaces != nil {
		o.mu.Unlock()
		return
	}
	o.authGen++
	o.wsGen++
	gen := o.authGen
	ctx := o.ctx
	cancels := o.collectCancelsLocked()
	o.userID = userID
	o.clearDataLocked()
	o.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	o.editor.Seed(models.Document{})

	cancel, err := o.gw.SubscribeWorkspaces(ctx, userID, func(list []models.Workspace) {
		o.applyWorkspaces(gen, list)
	})
	if err != nil {
		// Stays in loading; there is no automatic retry here.
		o.log.Error("workspace subscription failed", zap.Error(err))
		return
	}

	o.mu.Lock()
	if gen == o.authGen {
		o.cancelWorkspaces = cancel
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	cancel()
}

func (o *Orchestrator) applyWorkspaces(gen uint64, list []models.Workspace) {
	o.mu.Lock()
	if gen != o.authGen {
		o.mu.Unlock()
		return
	}
	o.workspaces = list
	o.wsReady = true

	target := o.activeWorkspaceID
	if target.IsZero() {
		// Auto-select only when nothing is active; never override a choice.
		if len(list) > 0 {
			target = list[0].ID
		}
	} else if !containsWorkspace(list, target) {
		// Membership revoked; fall back to the first remaining workspace.
		target = primitive.NilObjectID
		if len(list) > 0 {
			target = list[0].ID
		}
	}
	changed := target != o.activeWorkspaceID
	o.mu.Unlock()

	if changed {
		o.switchWorkspace(target)
	}
	o.notify()
}

// SelectWorkspace makes the given workspace active. Selecting a workspace
// the user is not a member of is refused.
func (o *Orchestrator) SelectWorkspace(id primitive.ObjectID) {
	o.mu.Lock()
	if !id.IsZero() && !containsWorkspace(o.workspaces, id) {
		o.mu.Unlock()
		o.log.Warn("refusing to select non-member workspace", zap.String("workspace_id", id.Hex()))
		return
	}
	o.mu.Unlock()
	o.switchWorkspace(id)
	o.notify()
}

func (o *Orchestrator) switchWorkspace(id primitive.ObjectID) {
	o.mu.Lock()
	if o.activeWorkspaceID == id {
		o.mu.Unlock()
		return
	}
	o.wsGen++
	gen := o.wsGen
	ctx := o.ctx
	cd, ca := o.cancelDocs, o.cancelApis
	o.cancelDocs, o.cancelApis = nil, nil
	o.activeWorkspaceID = id
	o.activeDocumentID = primitive.NilObjectID
	o.documents, o.apis = nil, nil
	o.docsReady, o.apisReady = false, false
	o.mu.Unlock()

	if cd != nil {
		cd()
	}
	if ca != nil {
		ca()
	}
	// Pending edits belonged to the old workspace's document; discard.
	o.editor.Seed(models.Document{})

	if id.IsZero() {
		return
	}

	cancelDocs, err := o.gw.SubscribeDocuments(ctx, id, func(docs []models.Document) {
		o.applyDocuments(gen, docs)
	})
	if err != nil {
		o.log.Error("document subscription failed", zap.Error(err))
	}
	cancelApis, err := o.gw.SubscribeApis(ctx, id, func(regs []models.ApiRegistration) {
		o.applyApis(gen, regs)
	})
	if err != nil {
		o.log.Error("api subscription failed", zap.Error(err))
	}

	o.mu.Lock()
	if gen == o.wsGen {
		o.cancelDocs = cancelDocs
		o.cancelApis = cancelApis
		o.mu.Unlock()
		return
	}
	o.mu.Unlock()
	if cancelDocs != nil {
		cancelDocs()
	}
	if cancelApis != nil {
		cancelApis()
	}
}

func (o *Orchestrator) applyDocuments(gen uint64, docs []models.Document) {
	o.mu.Lock()
	if gen != o.wsGen {
		o.mu.Unlock()
		return
	}
	o.documents = docs
	o.docsReady = true

	var remote *models.Document
	cleared := false
	if !o.activeDocumentID.IsZero() {
		if d, ok := findDocument(docs, o.activeDocumentID); ok {
			remote = &d
		} else {
			o.activeDocumentID = primitive.NilObjectID
			cleared = true
		}
	}
	o.mu.Unlock()

	if remote != nil {
		o.editor.ApplyRemote(*remote)
	}
	if cleared {
		o.editor.Seed(models.Document{})
	}
	o.notify()
}

func (o *Orchestrator) applyApis(gen uint64, regs []models.ApiRegistration) {
	o.mu.Lock()
	if gen != o.wsGen {
		o.mu.Unlock()
		return
	}
	o.apis = regs
	o.apisReady = true
	o.mu.Unlock()
	o.notify()
}

// SelectDocument makes a document of the active workspace the editing
// target and seeds the edit buffer from it. Selecting the already-active
// document is a no-op so an open draft is not clobbered. Unknown ids are
// refused.
func (o *Orchestrator) SelectDocument(id primitive.ObjectID) {
	o.mu.Lock()
	if id == o.activeDocumentID {
		o.mu.Unlock()
		return
	}
	doc, ok := findDocument(o.documents, id)
	if !ok {
		o.mu.Unlock()
		o.log.Warn("refusing to select document outside active workspace",
			zap.String("document_id", id.Hex()))
		return
	}
	o.activeDocumentID = id
	o.mu.Unlock()

	o.editor.Seed(doc)
	o.notify()
}

// SetView switches the top-level screen. Invalid names are ignored.
func (o *Orchestrator) SetView(v View) {
	if !ValidView(v) {
		return
	}
	o.mu.Lock()
	o.view = v
	o.mu.Unlock()
	o.notify()
}

// Snapshot returns the current frame.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	state, profile := o.identity.State()
	snap := Snapshot{
		AuthState:       state,
		Profile:         profile,
		View:            o.view,
		Workspaces:      o.workspaces,
		Documents:       o.documents,
		Apis:            o.apis,
		WorkspacesReady: o.wsReady,
		DocumentsReady:  o.docsReady,
		ApisReady:       o.apisReady,
	}
	if !o.activeWorkspaceID.IsZero() {
		for i := range o.workspaces {
			if o.workspaces[i].ID == o.activeWorkspaceID {
				ws := o.workspaces[i]
				snap.ActiveWorkspace = &ws
				break
			}
		}
	}
	if !o.activeDocumentID.IsZero() {
		if d, ok := findDocument(o.documents, o.activeDocumentID); ok {
			snap.ActiveDocument = &d
		}
	}
	return snap
}

func (o *Orchestrator) reset() {
	o.mu.Lock()
	o.authGen++
	o.wsGen++
	cancels := o.collectCancelsLocked()
	o.userID = primitive.NilObjectID
	o.clearDataLocked()
	o.mu.Unlock()

	for _, c := range cancels {
		c()
	}
	o.editor.Seed(models.Document{})
}

// Close tears down every subscription and flushes the editor.
func (o *Orchestrator) Close() {
	o.reset()
	o.identity.Close()
	o.editor.Close()
}

func (o *Orchestrator) collectCancelsLocked() []CancelFunc {
	var cancels []CancelFunc
	for _, c := range []CancelFunc{o.cancelWorkspaces, o.cancelDocs, o.cancelApis} {
		if c != nil {
			cancels = append(cancels, c)
		}
	}
	o.cancelWorkspaces, o.cancelDocs, o.cancelApis = nil, nil, nil
	return cancels
}

func (o *Orchestrator) clearDataLocked() {
	o.workspaces, o.documents, o.apis = nil, nil, nil
	o.wsReady, o.docsReady, o.apisReady = false, false, false
	o.activeWorkspaceID = primitive.NilObjectID
	o.activeDocumentID = primitive.NilObjectID
}

func (o *Orchestrator) notify() {
	o.mu.Lock()
	fn := o.onChange
	o.mu.Unlock()
	if fn != nil {
		fn()
	}
}

func containsWorkspace(list []models.Workspace, id primitive.ObjectID) bool {
	for i := range list {
		if list[i].ID == id {
			return true
		}
	}
	return false
}

func findDocument(list []models.Document, id primitive.ObjectID) (models.Document, bool) {
	for i := range list {
		if list[i].ID == id {
			return list[i], true
		}
	}
	return models.Document{}, false
}
