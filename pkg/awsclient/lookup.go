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
package awsclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// Interfaces para abstrair o SDK da AWS (Permite Mocking)
type SSMClient interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

type SecretsClient interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// Lookup resolve parâmetros do SSM e segredos do Secrets Manager. Os
// clientes reais só são criados na primeira consulta.
type Lookup struct {
	region string

	once    sync.Once
	ssm     SSMClient
	secrets SecretsClient
	err     error
}

// NewLookup cria um Lookup que usa a aws.Config compartilhada.
func NewLookup(region string) *Lookup {
	return &Lookup{region: region}
}

// NewLookupWithClients cria um Lookup sobre clientes já construídos (testes).
func NewLookupWithClients(ssmClient SSMClient, secretsClient SecretsClient) *Lookup {
	l := &Lookup{ssm: ssmClient, secrets: secretsClient}
	l.once.Do(func() {})
	return l
}

func (l *Lookup) init(ctx context.Context) error {
	l.once.Do(func() {
		cfg, err := GetAWSConfig(ctx, l.region)
		if err != nil {
			l.err = err
			return
		}
		l.ssm = ssm.NewFromConfig(cfg)
		l.secrets = secretsmanager.NewFromConfig(cfg)
	})
	return l.err
}

// Parameter lê um parâmetro do SSM, descriptografando SecureStrings.
func (l *Lookup) Parameter(ctx context.Context, name string) (string, error) {
	if err := l.init(ctx); err != nil {
		return "", err
	}
	if l.ssm == nil {
		return "", errors.New("cliente SSM não configurado")
	}

	out, err := l.ssm.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: aws.Bool(true),
	})
	if err != nil {
		return "", fmt.Errorf("erro no SSM GetParameter: %w", err)
	}
	if out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parâmetro SSM %q sem valor", name)
	}
	return *out.Parameter.Value, nil
}

// Secret lê um segredo. A referência "id#campo" extrai um campo de um
// segredo JSON; sem "#" o SecretString é devolvido inteiro.
func (l *Lookup) Secret(ctx context.Context, ref string) (string, error) {
	if err := l.init(ctx); err != nil {
		return "", err
	}
	if l.secrets == nil {
		return "", errors.New("cliente SecretsManager não configurado")
	}

	secretID, field, hasField := strings.Cut(ref, "#")

	out, err := l.secrets.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{
		SecretId: &secretID,
	})
	if err != nil {
		return "", fmt.Errorf("erro no SecretsManager: %w", err)
	}
	if out.SecretString == nil {
		return "", fmt.Errorf("segredo %q sem SecretString", secretID)
	}

	val := *out.SecretString
	if !hasField {
		return val, nil
	}

	var data map[string]any
	if err := json.Unmarshal([]byte(val), &data); err != nil {
		return "", fmt.Errorf("segredo %q não é JSON: %w", secretID, err)
	}
	fv, ok := data[field]
	if !ok {
		return "", fmt.Errorf("campo %q ausente no segredo %q", field, secretID)
	}
	if s, ok := fv.(string); ok {
		return s, nil
	}
	return fmt.Sprintf("%v", fv), nil
}
