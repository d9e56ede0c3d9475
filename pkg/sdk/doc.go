// Package esengine provides a Go client for indexing LMS documents into an
// Elasticsearch-compatible service and searching them with per-hit access checks.
//
// Every hit returned by a search is re-checked against the Area registered for
// its area id. Hits from unregistered areas and hits the Area does not grant are
// dropped, so a stale index can never leak a document.
//
//	client, _ := esengine.New(ctx,
//	    esengine.WithServer("localhost:9200"),
//	    esengine.WithIndex("moodle"),
//	    esengine.WithArea("mod_forum-post", forumArea),
//	)
//	client.Index(ctx, esengine.Document{
//	    esengine.FieldID:      "mod_forum-post-17",
//	    esengine.FieldAreaID:  "mod_forum-post",
//	    esengine.FieldItemID:  17,
//	    esengine.FieldContent: "Welcome to the course",
//	})
//	hits, _ := client.Search().
//	    Query("welcome").
//	    ForUser(42).
//	    InContexts("mod_forum-post", 10, 11).
//	    Limit(20).
//	    Do(ctx)
package esengine
