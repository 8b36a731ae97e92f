package secrets

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSecretsManager struct {
	calls  int
	output *secretsmanager.GetSecretValueOutput
	err    error
}

func (f *fakeSecretsManager) GetSecretValue(_ context.Context, in *secretsmanager.GetSecretValueInput, _ ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := *f.output
	out.Name = in.SecretId
	return &out, nil
}

func TestAWSSecretsManager_GetSecret(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	fake := &fakeSecretsManager{output: &secretsmanager.GetSecretValueOutput{
		ARN:          aws.String("arn:aws:secretsmanager:us-east-1:123:secret:pesapal/production"),
		SecretString: aws.String(`{"consumer_key":"k"}`),
		VersionId:    aws.String("v7"),
		CreatedDate:  &created,
	}}

	r := NewAWSSecretsManager(fake, DefaultAWSSecretsManagerConfig("us-east-1"), zap.NewNop())

	s, err := r.GetSecret(context.Background(), "pesapal/production")
	require.NoError(t, err)
	assert.Equal(t, `{"consumer_key":"k"}`, s.Value)
	assert.Equal(t, "v7", s.Version)
	assert.Equal(t, "2024-01-02T03:04:05Z", s.CreatedAt)
	assert.Equal(t, "pesapal/production", s.Metadata["name"])

	_, err = r.GetSecret(context.Background(), "pesapal/production")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.calls, "second read should come from cache")

	r.Invalidate("pesapal/production")
	_, err = r.GetSecret(context.Background(), "pesapal/production")
	require.NoError(t, err)
	assert.Equal(t, 2, fake.calls)
}

func TestAWSSecretsManager_Error(t *testing.T) {
	cause := errors.New("AccessDeniedException")
	r := NewAWSSecretsManager(&fakeSecretsManager{err: cause}, &AWSSecretsManagerConfig{Region: "us-east-1"}, nil)

	_, err := r.GetSecret(context.Background(), "pesapal/production")
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
}
