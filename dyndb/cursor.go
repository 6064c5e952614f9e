// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package dyndb

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// EncodeCursor converte a LastEvaluatedKey do DynamoDB em um token opaco,
// seguro para query string.
//
// A chave é serializada no formato JSON canônico do DynamoDB
// ({"Id":{"S":"..."}}) e depois codificada em base64 URL-safe sem padding.
func EncodeCursor(key map[string]types.AttributeValue) (string, error) {
	doc, err := attributeMapToJSON(key)
	if err != nil {
		return "", err
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("dyndb: encode cursor failed: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

// DecodeCursor faz o caminho inverso do EncodeCursor. Qualquer falha de
// decodificação é reportada como ErrInvalidCursor.
func DecodeCursor(token string) (map[string]types.AttributeValue, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	if len(doc) == 0 {
		return nil, fmt.Errorf("%w: empty key", ErrInvalidCursor)
	}

	key, err := jsonToAttributeMap(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}
	return key, nil
}

func attributeMapToJSON(m map[string]types.AttributeValue) (map[string]any, error) {
	out := make(map[string]any, len(m))
	for k, v := range m {
		jv, err := attributeToJSON(v)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = jv
	}
	return out, nil
}

func attributeToJSON(v types.AttributeValue) (map[string]any, error) {
	switch val := v.(type) {
	case *types.AttributeValueMemberS:
		return map[string]any{"S": val.Value}, nil
	case *types.AttributeValueMemberN:
		return map[string]any{"N": val.Value}, nil
	case *types.AttributeValueMemberB:
		return map[string]any{"B": val.Value}, nil
	case *types.AttributeValueMemberBOOL:
		return map[string]any{"BOOL": val.Value}, nil
	case *types.AttributeValueMemberNULL:
		return map[string]any{"NULL": val.Value}, nil
	case *types.AttributeValueMemberSS:
		return map[string]any{"SS": val.Value}, nil
	case *types.AttributeValueMemberNS:
		return map[string]any{"NS": val.Value}, nil
	case *types.AttributeValueMemberBS:
		return map[string]any{"BS": val.Value}, nil
	case *types.AttributeValueMemberM:
		inner, err := attributeMapToJSON(val.Value)
		if err != nil {
			return nil, err
		}
		return map[string]any{"M": inner}, nil
	case *types.AttributeValueMemberL:
		list := make([]any, 0, len(val.Value))
		for i, item := range val.Value {
			jv, err := attributeToJSON(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			list = append(list, jv)
		}
		return map[string]any{"L": list}, nil
	default:
		return nil, fmt.Errorf("dyndb: unsupported attribute value %T", v)
	}
}

func jsonToAttributeMap(doc map[string]json.RawMessage) (map[string]types.AttributeValue, error) {
	out := make(map[string]types.AttributeValue, len(doc))
	for k, raw := range doc {
		av, err := jsonToAttribute(raw)
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", k, err)
		}
		out[k] = av
	}
	return out, nil
}

// jsonToAttribute exige exatamente um descritor de tipo por valor.
func jsonToAttribute(raw json.RawMessage) (types.AttributeValue, error) {
	var typed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &typed); err != nil {
		return nil, err
	}
	if len(typed) != 1 {
		return nil, fmt.Errorf("expected exactly one type descriptor, got %d", len(typed))
	}

	for typ, body := range typed {
		if string(body) == "null" {
			return nil, fmt.Errorf("null value for type descriptor %q", typ)
		}
		switch typ {
		case "S":
			var s string
			if err := json.Unmarshal(body, &s); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberS{Value: s}, nil
		case "N":
			var n string
			if err := json.Unmarshal(body, &n); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberN{Value: n}, nil
		case "B":
			var b []byte
			if err := json.Unmarshal(body, &b); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberB{Value: b}, nil
		case "BOOL":
			var b bool
			if err := json.Unmarshal(body, &b); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberBOOL{Value: b}, nil
		case "NULL":
			var b bool
			if err := json.Unmarshal(body, &b); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberNULL{Value: b}, nil
		case "SS":
			var ss []string
			if err := json.Unmarshal(body, &ss); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberSS{Value: ss}, nil
		case "NS":
			var ns []string
			if err := json.Unmarshal(body, &ns); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberNS{Value: ns}, nil
		case "BS":
			var bs [][]byte
			if err := json.Unmarshal(body, &bs); err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberBS{Value: bs}, nil
		case "M":
			var inner map[string]json.RawMessage
			if err := json.Unmarshal(body, &inner); err != nil {
				return nil, err
			}
			m, err := jsonToAttributeMap(inner)
			if err != nil {
				return nil, err
			}
			return &types.AttributeValueMemberM{Value: m}, nil
		case "L":
			var items []json.RawMessage
			if err := json.Unmarshal(body, &items); err != nil {
				return nil, err
			}
			list := make([]types.AttributeValue, 0, len(items))
			for i, item := range items {
				av, err := jsonToAttribute(item)
				if err != nil {
					return nil, fmt.Errorf("index %d: %w", i, err)
				}
				list = append(list, av)
			}
			return &types.AttributeValueMemberL{Value: list}, nil
		default:
			return nil, fmt.Errorf("unknown type descriptor %q", typ)
		}
	}
	return nil, nil
}
