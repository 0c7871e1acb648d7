package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artatlas/artgraph/pkg/errors"
	"github.com/artatlas/artgraph/pkg/graph"
)

// MongoStore persists the graph in two MongoDB collections, nodes and
// relationships, keyed by their application-level ids.
type MongoStore struct {
	client *mongo.Client
	nodes  *mongo.Collection
	rels   *mongo.Collection
}

// NewMongoStore connects to MongoDB at uri and verifies the connection.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "ping mongodb")
	}
	db := client.Database(database)
	return &MongoStore{
		client: client,
		nodes:  db.Collection("nodes"),
		rels:   db.Collection("relationships"),
	}, nil
}

// PutSnapshot upserts all nodes and relationships from the snapshot.
func (s *MongoStore) PutSnapshot(ctx context.Context, snap *graph.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	opts := options.Replace().SetUpsert(true)
	for _, n := range snap.Nodes {
		if _, err := s.nodes.ReplaceOne(ctx, bson.M{"id": n.ID}, n, opts); err != nil {
			return errors.Wrap(errors.ErrCodeStoreFailure, err, "upsert node %s", n.ID)
		}
	}
	for _, r := range snap.Relationships {
		if _, err := s.rels.ReplaceOne(ctx, bson.M{"id": r.ID}, r, opts); err != nil {
			return errors.Wrap(errors.ErrCodeStoreFailure, err, "upsert relationship %s", r.ID)
		}
	}
	return nil
}

// GetSnapshot walks the graph breadth-first from rootID up to depth hops,
// one relationship query per hop.
func (s *MongoStore) GetSnapshot(ctx context.Context, rootID string, depth int) (*graph.Snapshot, error) {
	var root graph.Node
	err := s.nodes.FindOne(ctx, bson.M{"id": rootID}).Decode(&root)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeGraphNotFound, "node %q not found", rootID)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "load node %s", rootID)
	}

	visited := map[string]bool{rootID: true}
	frontier := []string{rootID}
	snap := &graph.Snapshot{Nodes: []graph.Node{root}}

	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		rels, err := s.findRelationships(ctx, frontier)
		if err != nil {
			return nil, err
		}
		var next []string
		for _, r := range rels {
			for _, endpoint := range []string{r.SourceID, r.TargetID} {
				if visited[endpoint] {
					continue
				}
				visited[endpoint] = true
				next = append(next, endpoint)
			}
		}
		if len(next) > 0 {
			nodes, err := s.findNodes(ctx, next)
			if err != nil {
				return nil, err
			}
			snap.Nodes = append(snap.Nodes, nodes...)
		}
		frontier = next
	}

	ids := make([]string, 0, len(visited))
	for id := range visited {
		ids = append(ids, id)
	}
	rels, err := s.findRelationshipsBetween(ctx, ids)
	if err != nil {
		return nil, err
	}
	snap.Relationships = rels
	return snap, nil
}

func (s *MongoStore) findRelationships(ctx context.Context, ids []string) ([]graph.Relationship, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"source_id": bson.M{"$in": ids}},
		bson.M{"target_id": bson.M{"$in": ids}},
	}}
	return s.decodeRelationships(ctx, filter)
}

func (s *MongoStore) findRelationshipsBetween(ctx context.Context, ids []string) ([]graph.Relationship, error) {
	filter := bson.M{
		"source_id": bson.M{"$in": ids},
		"target_id": bson.M{"$in": ids},
	}
	return s.decodeRelationships(ctx, filter)
}

func (s *MongoStore) decodeRelationships(ctx context.Context, filter bson.M) ([]graph.Relationship, error) {
	cur, err := s.rels.Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "query relationships")
	}
	defer cur.Close(ctx)
	var rels []graph.Relationship
	if err := cur.All(ctx, &rels); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "decode relationships")
	}
	return rels, nil
}

func (s *MongoStore) findNodes(ctx context.Context, ids []string) ([]graph.Node, error) {
	cur, err := s.nodes.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "query nodes")
	}
	defer cur.Close(ctx)
	var nodes []graph.Node
	if err := cur.All(ctx, &nodes); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStoreFailure, err, "decode nodes")
	}
	return nodes, nil
}

// DeleteNode removes the node and all relationships touching it.
func (s *MongoStore) DeleteNode(ctx context.Context, nodeID string) error {
	res, err := s.nodes.DeleteOne(ctx, bson.M{"id": nodeID})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailure, err, "delete node %s", nodeID)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeNotFound, "node %q not found", nodeID)
	}
	_, err = s.rels.DeleteMany(ctx, bson.M{"$or": bson.A{
		bson.M{"source_id": nodeID},
		bson.M{"target_id": nodeID},
	}})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStoreFailure, err, "delete relationships of %s", nodeID)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store.
var _ Store = (*MongoStore)(nil)
