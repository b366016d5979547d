// Package command registers commands and assertions on page objects and
// wraps every call so it operates on resolved page elements.
//
// A Catalog lists Definitions, each with a Kind (Plain, Assert, Verify or
// Expect) and an optional fixed callback slot. Register attaches them to a
// Context, which is a page or section bound to a driver session:
//
//	ctx, _ := command.NewContext(session, page, pageobject.RootID)
//	if err := command.Register(ctx, commands.Catalog()); err != nil {
//		return err
//	}
//	ctx.Call("click", pageobject.NewRef("submitButton"))
//	exp, _ := ctx.Expect("visible", pageobject.NewRef("banner"))
//
// Passing a pageobject.Ref as the first argument makes the call targeted;
// any other first argument, including strings that happen to start with
// "@", is passed through to the underlying command unchanged.
package command
