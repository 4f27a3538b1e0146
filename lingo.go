// Package lingo is the runtime translation layer of the Nirogya
// health-surveillance application.
//
// Lingo turns the flood of per-label translation requests produced during UI
// rendering into a small number of batched remote calls. Results are kept in
// a two-tier persistent cache so repeated requests never re-invoke the
// rate-limited remote engine, and languages the engine does not support
// natively are routed through a substitute language while keeping their own
// cache identity.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "fmt"
//
//	    "github.com/nirogya/lingo"
//	    "github.com/nirogya/lingo/adapter"
//	    "github.com/nirogya/lingo/cache"
//	)
//
//	func main() {
//	    var durable cache.DurableStore
//	    if s, err := cache.NewSQLiteStore("translations.db"); err == nil {
//	        durable = s
//	    } // a nil durable tier degrades to in-process caching
//
//	    engine := lingo.New("as", adapter.NewHTTPAdapter(adapter.HTTPConfig{
//	        Endpoint: "https://translate.example.org",
//	    }), lingo.WithStore(cache.NewTiered(durable)))
//
//	    fmt.Println(engine.Translate(context.Background(), "Water quality report"))
//	}
package lingo
