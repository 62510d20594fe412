package stream

import (
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// unmarshalImage decodes a stream record's new image into out. The Lambda
// events package and the SDK carry distinct attribute-value types, so the
// image is bridged to SDK values first and then unmarshalled normally.
func unmarshalImage(image map[string]events.DynamoDBAttributeValue, out any) error {
	converted := make(map[string]types.AttributeValue, len(image))
	for key, av := range image {
		sdkAV, err := sdkAttributeValue(av)
		if err != nil {
			return fmt.Errorf("stream: attribute %q: %w", key, err)
		}
		converted[key] = sdkAV
	}
	if err := attributevalue.UnmarshalMap(converted, out); err != nil {
		return fmt.Errorf("stream: unmarshal image: %w", err)
	}
	return nil
}

func sdkAttributeValue(av events.DynamoDBAttributeValue) (types.AttributeValue, error) {
	switch av.DataType() {
	case events.DataTypeString:
		return &types.AttributeValueMemberS{Value: av.String()}, nil
	case events.DataTypeNumber:
		return &types.AttributeValueMemberN{Value: av.Number()}, nil
	case events.DataTypeBoolean:
		return &types.AttributeValueMemberBOOL{Value: av.Boolean()}, nil
	case events.DataTypeNull:
		return &types.AttributeValueMemberNULL{Value: av.IsNull()}, nil
	case events.DataTypeBinary:
		return &types.AttributeValueMemberB{Value: av.Binary()}, nil
	case events.DataTypeStringSet:
		return &types.AttributeValueMemberSS{Value: av.StringSet()}, nil
	case events.DataTypeNumberSet:
		return &types.AttributeValueMemberNS{Value: av.NumberSet()}, nil
	case events.DataTypeBinarySet:
		return &types.AttributeValueMemberBS{Value: av.BinarySet()}, nil
	case events.DataTypeList:
		list := make([]types.AttributeValue, 0, len(av.List()))
		for _, item := range av.List() {
			converted, err := sdkAttributeValue(item)
			if err != nil {
				return nil, err
			}
			list = append(list, converted)
		}
		return &types.AttributeValueMemberL{Value: list}, nil
	case events.DataTypeMap:
		m := make(map[string]types.AttributeValue, len(av.Map()))
		for key, item := range av.Map() {
			converted, err := sdkAttributeValue(item)
			if err != nil {
				return nil, err
			}
			m[key] = converted
		}
		return &types.AttributeValueMemberM{Value: m}, nil
	default:
		return nil, fmt.Errorf("unsupported attribute type %v", av.DataType())
	}
}
