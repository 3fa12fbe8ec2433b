//go:build darwin

package desktop

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework AppKit

#import <AppKit/AppKit.h>

static int setActivationPolicy(int regular) {
	__block BOOL ok = NO;
	void (^apply)(void) = ^{
		[NSApplication sharedApplication];
		ok = [NSApp setActivationPolicy:(regular ? NSApplicationActivationPolicyRegular
		                                         : NSApplicationActivationPolicyAccessory)];
		if (ok && regular) {
			[NSApp activateIgnoringOtherApps:YES];
		}
	};
	if ([NSThread isMainThread]) {
		apply();
	} else {
		dispatch_sync(dispatch_get_main_queue(), apply);
	}
	return ok ? 1 : 0;
}
*/
import "C"

import "errors"

// NSDock changes the NSApplication activation policy.
type NSDock struct{}

func NewDock() DockController {
	return NSDock{}
}

func (NSDock) SetActivationPolicy(regular bool) error {
	flag := C.int(0)
	if regular {
		flag = 1
	}
	if C.setActivationPolicy(flag) == 0 {
		return errors.New("NSApplication refused the activation policy change")
	}
	return nil
}
