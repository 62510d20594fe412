package paramstore

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	out      *ssm.GetParameterOutput
	err      error
	lastName string
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.lastName = aws.ToString(in.Name)
	return f.out, f.err
}

func TestNew_NilAPI(t *testing.T) {
	_, err := New(nil)
	require.Error(t, err)
}

func TestGetParameter_HappyPath(t *testing.T) {
	api := &fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{
		Value: aws.String("https://cdn.example.com/lunch.jpg"),
	}}}
	c, err := New(api)
	require.NoError(t, err)

	value, err := c.GetParameter(context.Background(), "/lunchbot/card_image_url")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example.com/lunch.jpg", value)
	require.Equal(t, "/lunchbot/card_image_url", api.lastName)
}

func TestGetParameter_EmptyName(t *testing.T) {
	c, err := New(&fakeSSM{})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "  ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "name is required")
}

func TestGetParameter_APIError(t *testing.T) {
	c, err := New(&fakeSSM{err: errors.New("AccessDenied")})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "/lunchbot/card_image_url")
	require.Error(t, err)
	require.Contains(t, err.Error(), "card_image_url")
}

func TestGetParameter_MissingValue(t *testing.T) {
	c, err := New(&fakeSSM{out: &ssm.GetParameterOutput{}})
	require.NoError(t, err)

	_, err = c.GetParameter(context.Background(), "/lunchbot/card_image_url")
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing value")
}

func TestGetOrDefault(t *testing.T) {
	c, err := New(&fakeSSM{err: errors.New("ParameterNotFound")})
	require.NoError(t, err)
	require.Equal(t, "fallback", c.GetOrDefault(context.Background(), "/lunchbot/card_image_url", "fallback"))

	c, err = New(&fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("  ")}}})
	require.NoError(t, err)
	require.Equal(t, "fallback", c.GetOrDefault(context.Background(), "/lunchbot/card_image_url", "fallback"))

	c, err = New(&fakeSSM{out: &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: aws.String("stored")}}})
	require.NoError(t, err)
	require.Equal(t, "stored", c.GetOrDefault(context.Background(), "/lunchbot/card_image_url", "fallback"))
}
