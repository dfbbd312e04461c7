package port

// ShardWalker lists candidate interface index shards under a root
// directory in a stable order.
type ShardWalker interface {
	Walk(root string) ([]string, error)
}
