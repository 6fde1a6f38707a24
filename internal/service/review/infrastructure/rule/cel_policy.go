// internal/service/review/infrastructure/rule/cel_policy.go
package rule

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"storefront/internal/service/review/domain"
)

// DefaultPolicy 是未配置时使用的评论接受规则
const DefaultPolicy = `rating >= 1 && rating <= 5 && size(text) > 0 && size(user) > 0`

// CELPolicy 是 domain.ReviewPolicy 的 CEL 实现。
// 表达式可以引用 rating (int)、text (string)、user (string)，结果必须是 bool。
type CELPolicy struct {
	expr    string
	program cel.Program
}

// NewCELPolicy 编译规则表达式，语法或类型错误在启动时就暴露
func NewCELPolicy(expr string) (*CELPolicy, error) {
	if expr == "" {
		expr = DefaultPolicy
	}

	// 1. 声明规则可以使用的变量
	env, err := cel.NewEnv(
		cel.Variable("rating", cel.IntType),
		cel.Variable("text", cel.StringType),
		cel.Variable("user", cel.StringType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create cel env")
	}

	// 2. 编译并做类型检查
	ast, iss := env.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, errors.Wrapf(iss.Err(), "compile review policy %q", expr)
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("review policy %q must evaluate to bool, got %s", expr, ast.OutputType())
	}

	// 3. 生成可重复执行的 Program
	prg, err := env.Program(ast)
	if err != nil {
		return nil, errors.Wrap(err, "build review policy program")
	}
	return &CELPolicy{expr: expr, program: prg}, nil
}

// Accept 实现了 domain.ReviewPolicy 接口
func (p *CELPolicy) Accept(review domain.Review) (bool, error) {
	out, _, err := p.program.Eval(map[string]any{
		"rating": int64(review.Rating),
		"text":   review.Text,
		"user":   review.User,
	})
	if err != nil {
		return false, errors.Wrapf(err, "evaluate review policy %q", p.expr)
	}
	accepted, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("review policy %q returned %T", p.expr, out.Value())
	}
	return accepted, nil
}

// Expr 返回正在使用的规则表达式
func (p *CELPolicy) Expr() string {
	return p.expr
}
