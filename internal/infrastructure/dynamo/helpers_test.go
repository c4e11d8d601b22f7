package dynamo

import (
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrKey(t *testing.T) {
	k := strKey("email", "a@b.com")
	require.Len(t, k, 1)
	s, ok := k["email"].(*types.AttributeValueMemberS)
	require.True(t, ok)
	assert.Equal(t, "a@b.com", s.Value)
}

func TestStrValues_Pairs(t *testing.T) {
	v := strValues(":code", "1234", ":other", "x")
	require.Len(t, v, 2)
	assert.Equal(t, "1234", v[":code"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "x", v[":other"].(*types.AttributeValueMemberS).Value)
}

func TestStrValues_OddTrailingKeyIgnored(t *testing.T) {
	v := strValues(":code", "1234", ":dangling")
	assert.Len(t, v, 1)
}

func TestIsConditionFailed(t *testing.T) {
	assert.True(t, isConditionFailed(&types.ConditionalCheckFailedException{}))
	assert.False(t, isConditionFailed(&types.ResourceNotFoundException{}))
	assert.False(t, isConditionFailed(nil))
}
