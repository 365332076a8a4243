package hosted

import (
	"fmt"
	"hash/fnv"
	"math"
	"strconv"
	"strings"
	"unicode/utf16"

	jvmruntime "github.com/wippyai/jvm-runtime"
)

// defineBuiltins registers the java/lang classes the layer provides
// out of the box so descriptors against well-known names resolve
// without host setup.
func (e *Engine) defineBuiltins() {
	for _, cls := range []*Class{
		e.objectClass(),
		e.stringClass(),
		e.integerClass(),
		e.booleanClass(),
		e.mathClass(),
		e.systemClass(),
		throwableClass("java/lang/Throwable"),
		throwableClass("java/lang/Exception"),
		throwableClass("java/lang/RuntimeException"),
		throwableClass("java/lang/IllegalStateException"),
		throwableClass("java/lang/IllegalArgumentException"),
		throwableClass("java/lang/NullPointerException"),
		throwableClass("java/lang/NumberFormatException"),
		throwableClass("java/lang/StringIndexOutOfBoundsException"),
	} {
		e.classes.Set(cls.name, cls)
	}
}

func identityHash(o *Object) int32 {
	h := fnv.New32a()
	fmt.Fprintf(h, "%p", o)
	return int32(h.Sum32())
}

func (e *Engine) objectClass() *Class {
	return NewClass("java/lang/Object").
		Constructor("()V", nil).
		Method("hashCode", "()I", func(c Call) (jvmruntime.Value, error) {
			return jvmruntime.Int(identityHash(c.Recv)), nil
		}).
		Method("equals", "(Ljava/lang/Object;)Z", func(c Call) (jvmruntime.Value, error) {
			other, err := c.Deref(c.Args[0])
			if err != nil {
				return jvmruntime.Void(), err
			}
			return jvmruntime.Boolean(other == c.Recv), nil
		}).
		Method("toString", "()Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			return c.String(fmt.Sprintf("%s@%08x", c.Recv.ClassName(), uint32(identityHash(c.Recv)))), nil
		})
}

// StringData returns the Go string behind a managed string object.
func StringData(o *Object) (string, bool) {
	if o == nil {
		return "", false
	}
	s, ok := o.data.(string)
	return s, ok
}

func stringArg(c Call, v jvmruntime.Value) (string, error) {
	o, err := c.Deref(v)
	if err != nil {
		return "", err
	}
	if o == nil {
		return "", Throw("java/lang/NullPointerException", "null string")
	}
	s, _ := o.data.(string)
	return s, nil
}

func (e *Engine) stringClass() *Class {
	return NewClass("java/lang/String").
		Constructor("()V", nil).
		Method("length", "()I", func(c Call) (jvmruntime.Value, error) {
			s, _ := StringData(c.Recv)
			// Managed string length counts UTF-16 code units.
			return jvmruntime.Int(int32(len(utf16.Encode([]rune(s))))), nil
		}).
		Method("isEmpty", "()Z", func(c Call) (jvmruntime.Value, error) {
			s, _ := StringData(c.Recv)
			return jvmruntime.Boolean(s == ""), nil
		}).
		Method("charAt", "(I)C", func(c Call) (jvmruntime.Value, error) {
			s, _ := StringData(c.Recv)
			units := utf16.Encode([]rune(s))
			i := c.Args[0].AsInt()
			if i < 0 || int(i) >= len(units) {
				return jvmruntime.Void(), Throw(
					"java/lang/StringIndexOutOfBoundsException",
					"index %d, length %d", i, len(units))
			}
			return jvmruntime.Char(units[i]), nil
		}).
		Method("concat", "(Ljava/lang/String;)Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			s, _ := StringData(c.Recv)
			other, err := stringArg(c, c.Args[0])
			if err != nil {
				return jvmruntime.Void(), err
			}
			return c.String(s + other), nil
		}).
		Method("toUpperCase", "()Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			s, _ := StringData(c.Recv)
			return c.String(strings.ToUpper(s)), nil
		}).
		Method("toString", "()Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			return c.Object(c.Recv), nil
		})
}

func (e *Engine) integerClass() *Class {
	return NewClass("java/lang/Integer").
		Constructor("(I)V", func(c Call) (jvmruntime.Value, error) {
			c.Recv.SetField("value", c.Args[0])
			return jvmruntime.Void(), nil
		}).
		Method("intValue", "()I", func(c Call) (jvmruntime.Value, error) {
			v, _ := c.Recv.Field("value")
			return v, nil
		}).
		StaticMethod("parseInt", "(Ljava/lang/String;)I", func(c Call) (jvmruntime.Value, error) {
			s, err := stringArg(c, c.Args[0])
			if err != nil {
				return jvmruntime.Void(), err
			}
			n, perr := strconv.ParseInt(s, 10, 32)
			if perr != nil {
				return jvmruntime.Void(), Throw(
					"java/lang/NumberFormatException", "for input string: %q", s)
			}
			return jvmruntime.Int(int32(n)), nil
		}).
		StaticField("MAX_VALUE", "I", jvmruntime.Int(math.MaxInt32)).
		StaticField("MIN_VALUE", "I", jvmruntime.Int(math.MinInt32))
}

func (e *Engine) booleanClass() *Class {
	cls := NewClass("java/lang/Boolean").
		Constructor("(Z)V", func(c Call) (jvmruntime.Value, error) {
			c.Recv.SetField("value", c.Args[0])
			return jvmruntime.Void(), nil
		}).
		Method("booleanValue", "()Z", func(c Call) (jvmruntime.Value, error) {
			v, _ := c.Recv.Field("value")
			return v, nil
		})

	boxed := func(b bool) *Object {
		o := cls.newObject()
		o.SetField("value", jvmruntime.Boolean(b))
		return o
	}
	return cls.
		StaticObjectField("TRUE", "Ljava/lang/Boolean;", boxed(true)).
		StaticObjectField("FALSE", "Ljava/lang/Boolean;", boxed(false))
}

func (e *Engine) mathClass() *Class {
	return NewClass("java/lang/Math").
		StaticMethod("abs", "(I)I", func(c Call) (jvmruntime.Value, error) {
			v := c.Args[0].AsInt()
			if v < 0 {
				v = -v
			}
			return jvmruntime.Int(v), nil
		}).
		StaticMethod("max", "(II)I", func(c Call) (jvmruntime.Value, error) {
			a, b := c.Args[0].AsInt(), c.Args[1].AsInt()
			if a > b {
				return jvmruntime.Int(a), nil
			}
			return jvmruntime.Int(b), nil
		}).
		StaticField("PI", "D", jvmruntime.Double(math.Pi)).
		StaticField("E", "D", jvmruntime.Double(math.E))
}

func (e *Engine) systemClass() *Class {
	return NewClass("java/lang/System").
		StaticMethod("getProperty", "(Ljava/lang/String;)Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			key, err := stringArg(c, c.Args[0])
			if err != nil {
				return jvmruntime.Void(), err
			}
			v, ok := c.Property(key)
			if !ok {
				return jvmruntime.Object(nil), nil
			}
			return c.String(v), nil
		})
}

// throwableClass builds the common shape shared by the builtin
// throwable types: a message-carrying constructor and getMessage.
func throwableClass(name string) *Class {
	return NewClass(name).
		Constructor("()V", nil).
		Constructor("(Ljava/lang/String;)V", func(c Call) (jvmruntime.Value, error) {
			msg, err := stringArg(c, c.Args[0])
			if err != nil {
				return jvmruntime.Void(), err
			}
			c.Recv.SetData(msg)
			return jvmruntime.Void(), nil
		}).
		Method("getMessage", "()Ljava/lang/String;", func(c Call) (jvmruntime.Value, error) {
			msg, ok := c.Recv.Data().(string)
			if !ok || msg == "" {
				return jvmruntime.Object(nil), nil
			}
			return c.String(msg), nil
		})
}
