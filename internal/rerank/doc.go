// Package rerank applies maximal-marginal-relevance reranking to exported
// recommendation scores. Item similarity comes from the cosine similarity of
// L2-normalized item embeddings; each user's candidate list is reranked by
// trading relevance against similarity to the items already selected.
package rerank
