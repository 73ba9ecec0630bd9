package dynamodb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Pagination cursors carry the DynamoDB LastEvaluatedKey between requests as
// an opaque token. Only string key attributes occur in our tables, so the
// codec round-trips a flat string map.

// encodeCursor turns a LastEvaluatedKey into an opaque continuation token.
// Returns "" for an empty key, meaning no further pages.
func encodeCursor(key map[string]types.AttributeValue) (string, error) {
	if len(key) == 0 {
		return "", nil
	}

	flat := make(map[string]string, len(key))
	for name, av := range key {
		s, ok := av.(*types.AttributeValueMemberS)
		if !ok {
			return "", fmt.Errorf("unsupported key attribute type for %q", name)
		}
		flat[name] = s.Value
	}

	raw, err := json.Marshal(flat)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// decodeCursor turns a continuation token back into an ExclusiveStartKey.
// An empty token decodes to nil, meaning start from the beginning.
func decodeCursor(token string) (map[string]types.AttributeValue, error) {
	if token == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("malformed continuation token: %w", err)
	}

	var flat map[string]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		return nil, fmt.Errorf("malformed continuation token: %w", err)
	}

	key := make(map[string]types.AttributeValue, len(flat))
	for name, value := range flat {
		key[name] = &types.AttributeValueMemberS{Value: value}
	}
	return key, nil
}
