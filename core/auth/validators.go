package auth

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/masomo-portal/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to user attributes"
)

// registerValidators adds the password policy to v.
func registerValidators(v *core.Validator) {
	v.Engine().RegisterStructValidation(passwordStructValidation, RegisterForm{}, ResetPasswordForm{}, changePassword{})
	core.RegisterCustomTranslation(v.Engine(), v.Translator(), pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(v.Engine(), v.Translator(), pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(v.Engine(), v.Translator(), pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(v.Engine(), v.Translator(), pwdAttrSimTag, pwdAttrSimText)
}

// passwordStructValidation applies the password policy to the new password of the forms.
func passwordStructValidation(sl validator.StructLevel) {
	switch form := sl.Current().Interface().(type) {
	case RegisterForm:
		validatePassword(form.Password, "password", sl, form.FullName, form.Email)
	case ResetPasswordForm:
		validatePassword(form.Password, "password", sl)
	case changePassword:
		validatePassword(form.NewPassword, "new_password", sl, form.fullName, form.email, form.username)
	}
}

// validatePassword applies the password policy to provided password:
// - minLen: 8
// - no whitespace
// - no all numeric
// - no user attrs similarity
func validatePassword(pwd, field string, sl validator.StructLevel, attrs ...string) {
	if pwd == "" {
		return // reported by the required tag
	}
	reportErr := func(tag string) {
		sl.ReportError(pwd, field, field, tag, "")
	}

	// - minLen: 8
	pwdLen := len([]rune(pwd))
	if pwdLen < pwdMinLen {
		reportErr(pwdMinLenTag)
		return
	}

	var digitCount int
	for _, char := range pwd {
		// - no whitespace
		if unicode.IsSpace(char) {
			reportErr(pwdNoSpaceTag)
			return
		}
		if unicode.IsDigit(char) {
			digitCount++
		}
	}

	// - not all numeric
	if digitCount == pwdLen {
		reportErr(pwdNotAllNumTag)
		return
	}

	// - no user attrs similarity
	getRatio := func(pass, usrAttr string) float64 {
		if usrAttr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(strings.ToLower(pass), ""), strings.Split(strings.ToLower(usrAttr), "")).QuickRatio()
	}
	for _, attr := range attrs {
		if getRatio(pwd, attr) >= pwdMaxSim {
			reportErr(pwdAttrSimTag)
			return
		}
	}
}
