// Package inspect serves a component-tree inspector over HTTP for
// development. It exposes the live tree, binding wiring, and engine
// counters as JSON on localhost.
package inspect

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/davecgh/go-spew/spew"

	"github.com/jddutz/nexus/pkg/component"
	"github.com/jddutz/nexus/pkg/errors"
)

// Source provides the data the inspector serves. The engine implements
// it; tests provide fakes.
type Source interface {
	// Tree returns the component tree root, or nil when none is
	// attached yet.
	Tree() component.Component
	// Stats returns loop counters for the /stats endpoint.
	Stats() map[string]any
}

// server manages the HTTP server for tree inspection.
type server struct {
	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
	source   Source
}

var inspector server

// TreeNode is a serialized component.
type TreeNode struct {
	ID       string     `json:"id"`
	Name     string     `json:"name,omitempty"`
	Type     string     `json:"type"`
	State    string     `json:"state"`
	Bindings []string   `json:"bindings,omitempty"`
	Children []TreeNode `json:"children,omitempty"`
}

// BindingGroup lists one component's bindings for the /bindings
// endpoint.
type BindingGroup struct {
	Component string   `json:"component"`
	ID        string   `json:"id"`
	Bindings  []string `json:"bindings"`
}

// maxTreeDepth limits recursion to prevent stack overflow from
// malformed trees.
const maxTreeDepth = 500

// Start serves the inspector for src on localhost at the given port,
// binding an ephemeral port when port is 0. It returns the bound port.
// When the inspector is already running, Start returns the current
// port without rebinding.
func Start(port int, src Source) (int, error) {
	inspector.mu.Lock()
	defer inspector.mu.Unlock()

	if inspector.srv != nil {
		if inspector.listener != nil {
			return inspector.listener.Addr().(*net.TCPAddr).Port, nil
		}
		return port, nil
	}
	if src == nil {
		return 0, fmt.Errorf("inspect: Start with nil source")
	}

	// Bind first to fail fast on port conflicts.
	listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
	if err != nil {
		return 0, fmt.Errorf("inspect: listen: %w", err)
	}
	actualPort := listener.Addr().(*net.TCPAddr).Port

	mux := http.NewServeMux()
	mux.HandleFunc("/health", handleHealth)
	mux.HandleFunc("/tree", handleTree)
	mux.HandleFunc("/bindings", handleBindings)
	mux.HandleFunc("/stats", handleStats)
	mux.HandleFunc("/debug", handleDebug)

	srv := &http.Server{Handler: mux}
	inspector.srv = srv
	inspector.listener = listener
	inspector.source = src

	go func() {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			inspector.mu.Lock()
			inspector.srv = nil
			inspector.listener = nil
			inspector.source = nil
			inspector.mu.Unlock()
			errors.Report(&errors.Error{
				Op:   "inspect.serve",
				Kind: errors.KindInspect,
				Err:  err,
			})
		}
	}()

	return actualPort, nil
}

// Stop gracefully shuts the inspector down. Safe to call when it never
// started.
func Stop() {
	inspector.mu.Lock()
	srv := inspector.srv
	inspector.srv = nil
	inspector.listener = nil
	inspector.source = nil
	inspector.mu.Unlock()

	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func currentSource() Source {
	inspector.mu.Lock()
	defer inspector.mu.Unlock()
	return inspector.source
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTree returns the component tree as JSON. Serialization reads
// the live tree; a panic from racing a mutating update loop is
// recovered and reported as a 500.
func handleTree(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
		}
	}()

	src := currentSource()
	if src == nil {
		http.Error(w, "no source", http.StatusServiceUnavailable)
		return
	}
	root := src.Tree()
	if root == nil {
		http.Error(w, "no component tree", http.StatusServiceUnavailable)
		return
	}

	tree := serializeTree(root, 0)
	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleBindings returns a flat list of every component that declared
// bindings, with one description per binding.
func handleBindings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
		}
	}()

	src := currentSource()
	if src == nil {
		http.Error(w, "no source", http.StatusServiceUnavailable)
		return
	}
	root := src.Tree()
	if root == nil {
		http.Error(w, "no component tree", http.StatusServiceUnavailable)
		return
	}

	groups := []BindingGroup{}
	component.Walk(root, func(c component.Component) bool {
		descs := describeBindings(c)
		if len(descs) > 0 {
			groups = append(groups, BindingGroup{
				Component: c.Name(),
				ID:        c.ID(),
				Bindings:  descs,
			})
		}
		return true
	})

	data, err := json.MarshalIndent(groups, "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	src := currentSource()
	if src == nil {
		http.Error(w, "no source", http.StatusServiceUnavailable)
		return
	}

	data, err := json.MarshalIndent(src.Stats(), "", "  ")
	if err != nil {
		http.Error(w, fmt.Sprintf("json encode error: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleDebug returns a plain-text dump of the source state for quick
// terminal inspection.
func handleDebug(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			http.Error(w, fmt.Sprintf("panic: %v", rec), http.StatusInternalServerError)
		}
	}()

	src := currentSource()
	if src == nil {
		http.Error(w, "no source", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "stats:\n%s\n", spew.Sdump(src.Stats()))
	if root := src.Tree(); root != nil {
		fmt.Fprintf(w, "root: %s %q state=%s children=%d\n",
			reflect.TypeOf(root).String(), root.Name(), root.State(), len(root.Children()))
	} else {
		fmt.Fprintln(w, "root: <nil>")
	}
}

// serializeTree recursively converts the component tree to its
// JSON-serializable form. The depth parameter caps recursion.
func serializeTree(c component.Component, depth int) TreeNode {
	node := TreeNode{
		ID:       c.ID(),
		Name:     c.Name(),
		Type:     reflect.TypeOf(c).String(),
		State:    c.State().String(),
		Bindings: describeBindings(c),
	}
	if depth < maxTreeDepth {
		for _, child := range c.Children() {
			node.Children = append(node.Children, serializeTree(child, depth+1))
		}
	}
	return node
}

// describeBindings lists a component's bindings, preferring their own
// String form.
func describeBindings(c component.Component) []string {
	lister, ok := c.(interface{ Bindings() []component.Binding })
	if !ok {
		return nil
	}
	bindings := lister.Bindings()
	if len(bindings) == 0 {
		return nil
	}
	descs := make([]string, len(bindings))
	for i, b := range bindings {
		if s, ok := b.(fmt.Stringer); ok {
			descs[i] = s.String()
		} else {
			descs[i] = reflect.TypeOf(b).String()
		}
	}
	return descs
}
